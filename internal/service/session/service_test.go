package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/repository/sqlite"
)

func newService(t *testing.T) *Service {
	t.Helper()
	kv, err := sqlite.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	svc := NewService(kv, nil)
	svc.now = func() time.Time { return time.UnixMilli(1718000000123) }
	return svc
}

func TestLogin_MockAdmin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	user, err := svc.Login(ctx, "priya.k@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "user_1718000000123", Name: "priya.k", Email: "priya.k@example.com", Role: models.RoleAdmin}, user)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, current)

	view, err := svc.StartView(ctx)
	require.NoError(t, err)
	assert.Equal(t, ViewDashboard, view)
}

func TestSignup_RegularUser(t *testing.T) {
	svc := newService(t)

	user, err := svc.Signup(context.Background(), "Arjun", "arjun@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Arjun", user.Name)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestLogin_BlankCredentials(t *testing.T) {
	svc := newService(t)
	_, err := svc.Login(context.Background(), " ", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Signup(context.Background(), "x", "x@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_ClearsSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Logout(ctx))

	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	view, err := svc.StartView(ctx)
	require.NoError(t, err)
	assert.Equal(t, ViewLogin, view)
}

func TestCurrent_UnreadableSessionIsDiscarded(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.store.Set(context.Background(), Key, "{not json"))

	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}
