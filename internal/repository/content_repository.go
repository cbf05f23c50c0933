package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"filedrop/internal/models"
)

var ErrContentNotFound = errors.New("content not found")

// ExpiryFilter narrows admin content listings.
type ExpiryFilter string

const (
	ExpiryAll     ExpiryFilter = ""
	ExpiryActive  ExpiryFilter = "active"
	ExpiryExpired ExpiryFilter = "expired"
)

const contentColumns = `
	id, filename, original_filename, directory, storage_path, file_size,
	file_extension, mime_type, preview_path, expires_at, uploaded_by_id,
	created_at, updated_at`

type ContentRepository struct {
	pool *pgxpool.Pool
}

func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

func (r *ContentRepository) Create(ctx context.Context, content models.Content) error {
	const query = `
		INSERT INTO content (
			id, filename, original_filename, directory, storage_path, file_size,
			file_extension, mime_type, preview_path, expires_at, uploaded_by_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		content.ID,
		content.Filename,
		content.OriginalFilename,
		content.Directory,
		content.StoragePath,
		content.FileSize,
		content.FileExtension,
		content.MimeType,
		content.PreviewPath,
		content.ExpiresAt,
		content.UploadedByID,
	)
	return err
}

// Exists backs the short-id allocator's collision check.
func (r *ContentRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM content WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE id = $1`
	return r.scanContent(r.pool.QueryRow(ctx, query, id))
}

func (r *ContentRepository) GetBySlug(ctx context.Context, slug string) (models.Content, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM content
		WHERE id = (SELECT content_id FROM short_slugs WHERE slug = $1)
	`
	return r.scanContent(r.pool.QueryRow(ctx, query, slug))
}

func (r *ContentRepository) List(ctx context.Context, filter ExpiryFilter, limit, offset int) ([]models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content`
	switch filter {
	case ExpiryActive:
		query += ` WHERE expires_at IS NULL OR expires_at > NOW()`
	case ExpiryExpired:
		query += ` WHERE expires_at IS NOT NULL AND expires_at <= NOW()`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListExpired returns everything past its expiry so the cleanup job can
// remove the files before the rows.
func (r *ContentRepository) ListExpired(ctx context.Context, now time.Time) ([]models.Content, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM content
		WHERE expires_at IS NOT NULL AND expires_at <= $1
		ORDER BY expires_at
	`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM content WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrContentNotFound
	}
	return nil
}

// SumSizeByUser reports the user's live storage usage for quota checks.
func (r *ContentRepository) SumSizeByUser(ctx context.Context, userID string) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(file_size), 0)
		FROM content
		WHERE uploaded_by_id = $1
		  AND (expires_at IS NULL OR expires_at > NOW())
	`
	var total int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ContentRepository) scanContent(row pgx.Row) (models.Content, error) {
	var content models.Content
	if err := row.Scan(
		&content.ID,
		&content.Filename,
		&content.OriginalFilename,
		&content.Directory,
		&content.StoragePath,
		&content.FileSize,
		&content.FileExtension,
		&content.MimeType,
		&content.PreviewPath,
		&content.ExpiresAt,
		&content.UploadedByID,
		&content.CreatedAt,
		&content.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Content{}, ErrContentNotFound
		}
		return models.Content{}, err
	}
	return content, nil
}

func (r *ContentRepository) collect(rows pgx.Rows) ([]models.Content, error) {
	var items []models.Content
	for rows.Next() {
		var content models.Content
		if err := rows.Scan(
			&content.ID,
			&content.Filename,
			&content.OriginalFilename,
			&content.Directory,
			&content.StoragePath,
			&content.FileSize,
			&content.FileExtension,
			&content.MimeType,
			&content.PreviewPath,
			&content.ExpiresAt,
			&content.UploadedByID,
			&content.CreatedAt,
			&content.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, content)
	}
	return items, rows.Err()
}
