package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/service/session"
)

// SessionHandler exposes login, signup and logout.
type SessionHandler struct {
	svc    *session.Service
	logger *zap.Logger
}

// NewSessionHandler constructs the session HTTP adapter.
func NewSessionHandler(svc *session.Service, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{svc: svc, logger: logger}
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login signs in with any non-blank credentials.
func (h *SessionHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	h.respondUser(c, user, err)
}

// Signup registers a regular user and signs them in.
func (h *SessionHandler) Signup(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.svc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	h.respondUser(c, user, err)
}

func (h *SessionHandler) respondUser(c *gin.Context, user models.User, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error("failed to start session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to start session"})
	default:
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// Logout clears the session.
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context()); err != nil {
		h.logger.Error("failed to clear session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to log out"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Current reports which screen to open and, when signed in, the user.
func (h *SessionHandler) Current(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.svc.StartView(ctx)
	if err != nil {
		h.logger.Error("failed to read session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to read session"})
		return
	}

	resp := gin.H{"view": view}
	if view == session.ViewDashboard {
		if user, err := h.svc.Current(ctx); err == nil {
			resp["user"] = user
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Navigation renders the sidebar with the entry for ?current= marked active.
func (h *SessionHandler) Navigation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": models.RenderNavigation(models.Sidebar, c.Query("current"))})
}
