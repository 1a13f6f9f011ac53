// Package session keeps the signed-in user. Authentication is simulated:
// any credentials succeed and produce a mock user.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/repository"
)

// Key is the store key holding the serialized user.
const Key = "user"

var (
	// ErrInvalidCredentials is returned when login or signup input is blank.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNoSession is returned when nobody is signed in.
	ErrNoSession = errors.New("no active session")
)

// Store is the key-value persistence the session lives in.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// View names the screen a client should show for the session state.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewLogin     View = "login"
)

// Service manages the single persisted session.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds a session service over store.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Login signs in an admin whose name is the local part of email.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	name, _, _ := strings.Cut(email, "@")
	return s.start(ctx, models.User{Name: name, Email: email, Role: models.RoleAdmin})
}

// Signup registers and signs in a regular user.
func (s *Service) Signup(ctx context.Context, name, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	return s.start(ctx, models.User{Name: strings.TrimSpace(name), Email: email, Role: models.RoleUser})
}

func (s *Service) start(ctx context.Context, user models.User) (models.User, error) {
	user.ID = fmt.Sprintf("user_%d", s.now().UnixMilli())

	payload, err := json.Marshal(user)
	if err != nil {
		return models.User{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, Key, string(payload)); err != nil {
		s.logger.Error("failed to persist session", zap.Error(err))
		return models.User{}, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("session started", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

// Logout clears the session. Logging out twice is fine.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the signed-in user or ErrNoSession.
func (s *Service) Current(ctx context.Context) (models.User, error) {
	raw, err := s.store.Get(ctx, Key)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrNoSession
	}
	if err != nil {
		return models.User{}, fmt.Errorf("read session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("discarding unreadable session", zap.Error(err))
		return models.User{}, ErrNoSession
	}
	return user, nil
}

// StartView picks the first screen: the dashboard when a session exists,
// the login page otherwise.
func (s *Service) StartView(ctx context.Context) (View, error) {
	_, err := s.Current(ctx)
	switch {
	case errors.Is(err, ErrNoSession):
		return ViewLogin, nil
	case err != nil:
		return "", err
	}
	return ViewDashboard, nil
}
