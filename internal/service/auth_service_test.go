package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/models"
	"filedrop/internal/ratelimit"
	"filedrop/internal/repository"
	"filedrop/internal/security"
)

type fakeDirectory struct {
	users       map[string]models.User
	roleLookups int
}

func (d *fakeDirectory) FindByUsername(_ context.Context, username string) (models.User, error) {
	u, ok := d.users[username]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (d *fakeDirectory) GetByID(_ context.Context, id string) (models.User, error) {
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (d *fakeDirectory) SetPasswordHash(_ context.Context, id string, passwordHash []byte) error {
	for name, u := range d.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			d.users[name] = u
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (d *fakeDirectory) GetRoleByID(_ context.Context, id string) (models.Role, error) {
	d.roleLookups++
	for _, u := range d.users {
		if u.ID == id {
			return u.Role, nil
		}
	}
	return "", repository.ErrUserNotFound
}

type authFixture struct {
	svc   *AuthService
	dir   *fakeDirectory
	clock *time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := security.HashPassword("correct horse")
	require.NoError(t, err)

	dir := &fakeDirectory{users: map[string]models.User{
		"alice": {ID: "u1", Username: "alice", PasswordHash: hash, Role: models.RoleUploader},
	}}

	// Token expiry is validated against the real clock inside the jwt
	// library, so the fake clock starts at wall time.
	start := time.Now()
	clock := &start
	now := func() time.Time { return *clock }

	limiter := ratelimit.NewMemoryLimiter(ratelimit.WithClock(now))
	svc := NewAuthService(dir, limiter, "test-secret", 24*time.Hour, 5*time.Minute, zerolog.Nop()).WithClock(now)

	return &authFixture{svc: svc, dir: dir, clock: clock}
}

func (f *authFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)

	user, token, err := f.svc.Login(context.Background(), "Alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	require.NotEmpty(t, token)

	claims, err := f.svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleUploader, claims.Role)
	assert.Equal(t, f.clock.UnixMilli(), claims.RevalidatedAt)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.Login(context.Background(), "mallory", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginLockout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < ratelimit.DefaultThreshold; i++ {
		_, _, err := f.svc.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Locked out: even the correct password is rejected with the same error.
	_, _, err := f.svc.Login(ctx, "alice", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The window elapses and the account unlocks.
	f.advance(ratelimit.DefaultWindow + time.Second)
	_, _, err = f.svc.Login(ctx, "alice", "correct horse")
	assert.NoError(t, err)
}

func TestLoginSuccessClearsFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < ratelimit.DefaultThreshold-1; i++ {
		_, _, err := f.svc.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err := f.svc.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)

	// The counter restarted, so the same run of failures does not lock.
	for i := 0; i < ratelimit.DefaultThreshold-1; i++ {
		_, _, err := f.svc.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, _, err = f.svc.Login(ctx, "alice", "correct horse")
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.svc.ChangePassword(ctx, "u1", "wrong current", "new password 1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = f.svc.ChangePassword(ctx, "u1", "correct horse", "short")
	var vErr ValidationError
	assert.ErrorAs(t, err, &vErr)

	err = f.svc.ChangePassword(ctx, "u1", "correct horse", "new password 1")
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, "alice", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.svc.Login(ctx, "alice", "new password 1")
	assert.NoError(t, err)
}

func TestRefreshWithinIntervalSkipsLookup(t *testing.T) {
	f := newAuthFixture(t)

	claims := &security.SessionClaims{
		UserID:        "u1",
		Role:          models.RoleUploader,
		RevalidatedAt: f.clock.UnixMilli(),
	}

	f.advance(4 * time.Minute)

	changed, err := f.svc.Refresh(context.Background(), claims)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, f.dir.roleLookups)
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	f := newAuthFixture(t)

	claims := &security.SessionClaims{
		UserID:        "u1",
		Role:          models.RoleUploader,
		RevalidatedAt: f.clock.UnixMilli(),
	}

	u := f.dir.users["alice"]
	u.Role = models.RoleAdmin
	f.dir.users["alice"] = u

	f.advance(6 * time.Minute)

	changed, err := f.svc.Refresh(context.Background(), claims)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, f.dir.roleLookups)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, f.clock.UnixMilli(), claims.RevalidatedAt)
}

func TestRefreshDeletedUserClearsIdentity(t *testing.T) {
	f := newAuthFixture(t)

	claims := &security.SessionClaims{
		UserID:        "ghost",
		Role:          models.RoleAdmin,
		RevalidatedAt: f.clock.UnixMilli(),
	}

	f.advance(6 * time.Minute)

	changed, err := f.svc.Refresh(context.Background(), claims)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, claims.Authenticated())
	assert.Empty(t, string(claims.Role))
}

func TestRefreshAnonymousNoop(t *testing.T) {
	f := newAuthFixture(t)

	claims := &security.SessionClaims{}
	changed, err := f.svc.Refresh(context.Background(), claims)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, f.dir.roleLookups)
}
