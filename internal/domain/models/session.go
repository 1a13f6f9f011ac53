package models

// User is the session record persisted under the session key.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
