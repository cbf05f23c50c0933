package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"filedrop/internal/models"
)

var ErrSlugTaken = errors.New("slug already taken")

// SlugRepository maps custom short slugs onto content records. The unique
// constraint on the slug column is the authoritative uniqueness guard;
// validation.ValidateSlug only checks shape.
type SlugRepository struct {
	pool *pgxpool.Pool
}

func NewSlugRepository(pool *pgxpool.Pool) *SlugRepository {
	return &SlugRepository{pool: pool}
}

func (r *SlugRepository) Create(ctx context.Context, slug models.ShortSlug) error {
	const query = `
		INSERT INTO short_slugs (id, slug, content_id, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.pool.Exec(ctx, query, slug.ID, slug.Slug, slug.ContentID)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func (r *SlugRepository) ListByContent(ctx context.Context, contentID string) ([]models.ShortSlug, error) {
	const query = `
		SELECT id, slug, content_id, created_at
		FROM short_slugs
		WHERE content_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []models.ShortSlug
	for rows.Next() {
		var slug models.ShortSlug
		if err := rows.Scan(&slug.ID, &slug.Slug, &slug.ContentID, &slug.CreatedAt); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

func (r *SlugRepository) Delete(ctx context.Context, slug string) error {
	const query = `DELETE FROM short_slugs WHERE slug = $1`
	_, err := r.pool.Exec(ctx, query, slug)
	return err
}
