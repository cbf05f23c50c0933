package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"filedrop/internal/models"
	"filedrop/internal/ratelimit"
	"filedrop/internal/repository"
	"filedrop/internal/security"
)

// ErrInvalidCredentials covers unknown usernames, wrong passwords and
// rate-limit lockouts alike, so a caller cannot distinguish "locked out"
// from "wrong password" and confirm an account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserDirectory is the slice of the user repository the auth flow needs.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetRoleByID(ctx context.Context, id string) (models.Role, error)
	SetPasswordHash(ctx context.Context, id string, passwordHash []byte) error
}

type AuthService struct {
	users   UserDirectory
	limiter ratelimit.Limiter

	secret       string
	sessionTTL   time.Duration
	revalidation time.Duration

	log zerolog.Logger
	now func() time.Time
}

func NewAuthService(
	users UserDirectory,
	limiter ratelimit.Limiter,
	secret string,
	sessionTTL time.Duration,
	revalidationInterval time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		limiter:      limiter,
		secret:       secret,
		sessionTTL:   sessionTTL,
		revalidation: revalidationInterval,
		log:          log,
		now:          time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login verifies credentials under the rate limiter. The lockout check runs
// before any user lookup or password hashing, so locked accounts never reach
// the comparison step. The resulting latency difference between "locked" and
// "wrong password" is a known, accepted oracle.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return models.User{}, "", ErrInvalidCredentials
	}

	locked, err := s.limiter.IsLocked(ctx, username)
	if err != nil {
		return models.User{}, "", err
	}
	if locked {
		return models.User{}, "", ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.noteFailure(ctx, username)
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		s.noteFailure(ctx, username)
		return models.User{}, "", ErrInvalidCredentials
	}

	if err := s.limiter.Clear(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("clear rate limit failed")
	}

	token, err := s.IssueToken(security.SessionClaims{
		UserID:        user.ID,
		Role:          user.Role,
		RevalidatedAt: s.now().UnixMilli(),
	})
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) noteFailure(ctx context.Context, username string) {
	nowLocked, err := s.limiter.RecordFailure(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Msg("record login failure failed")
		return
	}
	if nowLocked {
		s.log.Warn().Str("username", username).Msg("account locked by rate limiter")
	}
}

// Refresh applies the session revalidation policy. Claims younger than the
// revalidation interval pass through untouched with no store access. Older
// claims trigger one lookup: a deleted user clears the identity so the
// caller treats the session as unauthenticated; otherwise the cached role is
// overwritten in case an admin changed it and the timestamp resets.
func (s *AuthService) Refresh(ctx context.Context, claims *security.SessionClaims) (changed bool, err error) {
	if !claims.Authenticated() {
		return false, nil
	}

	age := s.now().Sub(time.UnixMilli(claims.RevalidatedAt))
	if age <= s.revalidation {
		return false, nil
	}

	role, err := s.users.GetRoleByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			claims.UserID = ""
			claims.Role = ""
			claims.RevalidatedAt = 0
			return true, nil
		}
		return false, err
	}

	claims.Role = role
	claims.RevalidatedAt = s.now().UnixMilli()
	return true, nil
}

// ChangePassword replaces the caller's password after verifying the current
// one. New passwords follow the same length rule as admin-set ones.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, updated string) error {
	if len(updated) < 8 {
		return invalid("password must be at least 8 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(updated)
	if err != nil {
		return err
	}
	return s.users.SetPasswordHash(ctx, userID, hash)
}

// IssueToken signs claims into a session token.
func (s *AuthService) IssueToken(claims security.SessionClaims) (string, error) {
	return security.SignSessionToken(s.secret, claims, s.sessionTTL, s.now())
}

// ParseToken verifies a session token's signature and expiry.
func (s *AuthService) ParseToken(token string) (*security.SessionClaims, error) {
	return security.ParseSessionToken(token, s.secret)
}
