package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"filedrop/internal/models"
)

var ErrInviteNotFound = errors.New("invite not found")

type InviteRepository struct {
	pool *pgxpool.Pool
}

func NewInviteRepository(pool *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{pool: pool}
}

func (r *InviteRepository) Create(ctx context.Context, invite models.InviteToken) error {
	const query = `
		INSERT INTO invite_tokens (id, token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query, invite.ID, invite.Token, invite.UserID, invite.ExpiresAt)
	return err
}

func (r *InviteRepository) GetByToken(ctx context.Context, token string) (models.InviteToken, error) {
	const query = `
		SELECT i.id, i.token, i.user_id, u.username, i.expires_at, i.used_at, i.created_at
		FROM invite_tokens i
		JOIN users u ON u.id = i.user_id
		WHERE i.token = $1
	`
	var invite models.InviteToken
	if err := r.pool.QueryRow(ctx, query, token).Scan(
		&invite.ID,
		&invite.Token,
		&invite.UserID,
		&invite.Username,
		&invite.ExpiresAt,
		&invite.UsedAt,
		&invite.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.InviteToken{}, ErrInviteNotFound
		}
		return models.InviteToken{}, err
	}
	return invite, nil
}

// Redeem sets the invited user's password and consumes the token in one
// transaction, so a raced redemption cannot set the password twice.
func (r *InviteRepository) Redeem(ctx context.Context, inviteID string, userID string, passwordHash []byte) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const updateUser = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, updateUser, userID, passwordHash); err != nil {
		return err
	}

	const consume = `
		UPDATE invite_tokens SET used_at = NOW()
		WHERE id = $1 AND used_at IS NULL
	`
	cmd, err := tx.Exec(ctx, consume, inviteID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInviteNotFound
	}

	return tx.Commit(ctx)
}
