package service

import (
	"context"

	"github.com/rs/zerolog"

	"filedrop/internal/ids"
	"filedrop/internal/models"
	"filedrop/internal/repository"
	"filedrop/internal/security"
)

// BootstrapAdmin creates the configured admin account when the users table is
// empty, so a fresh deployment has a way in. Once any user exists it does
// nothing.
func BootstrapAdmin(ctx context.Context, users *repository.UserRepository, username, password string, log zerolog.Logger) error {
	if username == "" || password == "" {
		return nil
	}

	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:           ids.NewRowID(),
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	log.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}
