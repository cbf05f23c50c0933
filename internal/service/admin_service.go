package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"filedrop/internal/ids"
	"filedrop/internal/models"
	"filedrop/internal/repository"
	"filedrop/internal/security"
)

// AdminService covers user management, invite provisioning and the
// directory allow-list.
type AdminService struct {
	users       *repository.UserRepository
	invites     *repository.InviteRepository
	directories *repository.DirectoryRepository

	inviteTTL time.Duration
	baseURL   string

	log zerolog.Logger
	now func() time.Time
}

func NewAdminService(
	users *repository.UserRepository,
	invites *repository.InviteRepository,
	directories *repository.DirectoryRepository,
	inviteTTL time.Duration,
	baseURL string,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:       users,
		invites:     invites,
		directories: directories,
		inviteTTL:   inviteTTL,
		baseURL:     baseURL,
		log:         log,
		now:         time.Now,
	}
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return invalid("username must be 3-50 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return invalid("password must be at least 8 characters")
	}
	return nil
}

type CreateUserInput struct {
	Username string
	Password string
	Role     string
}

func (s *AdminService) CreateUser(ctx context.Context, input CreateUserInput) (models.User, error) {
	if input.Username == "" || input.Password == "" {
		return models.User{}, invalid("username and password are required")
	}
	if err := validateUsername(input.Username); err != nil {
		return models.User{}, err
	}
	if err := validatePassword(input.Password); err != nil {
		return models.User{}, err
	}

	role := models.RoleGuest
	if input.Role != "" {
		parsed, err := models.ParseRole(input.Role)
		if err != nil {
			return models.User{}, invalid(err.Error())
		}
		role = parsed
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.NewRowID(),
		Username:     input.Username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

type InviteResult struct {
	User      models.User
	Token     string
	URL       string
	ExpiresAt time.Time
}

// CreateInvite provisions a user with an unusable password and a one-time
// invite link through which they set their own.
func (s *AdminService) CreateInvite(ctx context.Context, username, role string) (InviteResult, error) {
	if err := validateUsername(username); err != nil {
		return InviteResult{}, err
	}
	parsedRole := models.RoleGuest
	if role != "" {
		parsed, err := models.ParseRole(role)
		if err != nil {
			return InviteResult{}, invalid(err.Error())
		}
		parsedRole = parsed
	}

	// A random unredeemable hash: login is impossible until the invite is
	// used.
	placeholder, err := security.NewInviteToken()
	if err != nil {
		return InviteResult{}, err
	}
	hash, err := security.HashPassword(placeholder)
	if err != nil {
		return InviteResult{}, err
	}

	user := models.User{
		ID:           ids.NewRowID(),
		Username:     username,
		PasswordHash: hash,
		Role:         parsedRole,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return InviteResult{}, err
	}

	token, err := security.NewInviteToken()
	if err != nil {
		return InviteResult{}, err
	}
	invite := models.InviteToken{
		ID:        ids.NewRowID(),
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.inviteTTL),
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return InviteResult{}, err
	}

	return InviteResult{
		User:      user,
		Token:     token,
		URL:       fmt.Sprintf("%s/invite/%s", s.baseURL, token),
		ExpiresAt: invite.ExpiresAt,
	}, nil
}

var (
	ErrInviteUsed    = errors.New("invite already used")
	ErrInviteExpired = errors.New("invite expired")
)

// ValidateInvite checks an invite token without consuming it.
func (s *AdminService) ValidateInvite(ctx context.Context, token string) (models.InviteToken, error) {
	invite, err := s.invites.GetByToken(ctx, token)
	if err != nil {
		return models.InviteToken{}, err
	}
	if invite.UsedAt != nil {
		return models.InviteToken{}, ErrInviteUsed
	}
	if invite.ExpiresAt.Before(s.now()) {
		return models.InviteToken{}, ErrInviteExpired
	}
	return invite, nil
}

// RedeemInvite sets the invited user's password and consumes the token.
func (s *AdminService) RedeemInvite(ctx context.Context, token, password string) (models.InviteToken, error) {
	if err := validatePassword(password); err != nil {
		return models.InviteToken{}, err
	}

	invite, err := s.ValidateInvite(ctx, token)
	if err != nil {
		return models.InviteToken{}, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return models.InviteToken{}, err
	}
	if err := s.invites.Redeem(ctx, invite.ID, invite.UserID, hash); err != nil {
		return models.InviteToken{}, err
	}

	s.log.Info().Str("user_id", invite.UserID).Msg("invite redeemed")
	return invite, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

type UpdateUserInput struct {
	Username string
	Password string
	Role     string
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (models.User, error) {
	var username *string
	if input.Username != "" {
		if err := validateUsername(input.Username); err != nil {
			return models.User{}, err
		}
		username = &input.Username
	}

	var hash []byte
	if input.Password != "" {
		if err := validatePassword(input.Password); err != nil {
			return models.User{}, err
		}
		h, err := security.HashPassword(input.Password)
		if err != nil {
			return models.User{}, err
		}
		hash = h
	}

	var role *models.Role
	if input.Role != "" {
		parsed, err := models.ParseRole(input.Role)
		if err != nil {
			return models.User{}, invalid(err.Error())
		}
		role = &parsed
	}

	return s.users.Update(ctx, id, username, hash, role)
}

// DeleteUser removes a user; self-deletion is rejected so an admin cannot
// lock themselves out mid-session.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return invalid("cannot delete your own account")
	}
	return s.users.Delete(ctx, id)
}

func (s *AdminService) ListDirectories(ctx context.Context) ([]models.AllowedDirectory, error) {
	return s.directories.List(ctx)
}

func (s *AdminService) CreateDirectory(ctx context.Context, name, dirPath string) (models.AllowedDirectory, error) {
	if name == "" || dirPath == "" {
		return models.AllowedDirectory{}, invalid("name and path are required")
	}

	// Directory paths become storage key prefixes, so they follow the same
	// rules as keys: relative, forward slashes, no parent references.
	dirPath = strings.Trim(strings.ReplaceAll(dirPath, "\\", "/"), "/")
	cleaned := path.Clean(dirPath)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.ContainsRune(cleaned, '\x00') {
		return models.AllowedDirectory{}, invalid("invalid directory path")
	}

	dir := models.AllowedDirectory{
		ID:   ids.NewRowID(),
		Name: name,
		Path: cleaned,
	}
	if err := s.directories.Create(ctx, dir); err != nil {
		return models.AllowedDirectory{}, err
	}
	return dir, nil
}
