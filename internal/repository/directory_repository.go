package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"filedrop/internal/models"
)

var ErrDirectoryNotFound = errors.New("directory not found")

// DirectoryRepository holds the admin-managed allow-list of upload
// directories.
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

func (r *DirectoryRepository) Create(ctx context.Context, dir models.AllowedDirectory) error {
	const query = `
		INSERT INTO allowed_directories (id, name, path, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.pool.Exec(ctx, query, dir.ID, dir.Name, dir.Path)
	return err
}

func (r *DirectoryRepository) List(ctx context.Context) ([]models.AllowedDirectory, error) {
	const query = `
		SELECT id, name, path, created_at
		FROM allowed_directories
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dirs []models.AllowedDirectory
	for rows.Next() {
		var dir models.AllowedDirectory
		if err := rows.Scan(&dir.ID, &dir.Name, &dir.Path, &dir.CreatedAt); err != nil {
			return nil, err
		}
		dirs = append(dirs, dir)
	}
	return dirs, rows.Err()
}

func (r *DirectoryRepository) GetByPath(ctx context.Context, path string) (models.AllowedDirectory, error) {
	const query = `
		SELECT id, name, path, created_at
		FROM allowed_directories
		WHERE path = $1
	`
	var dir models.AllowedDirectory
	if err := r.pool.QueryRow(ctx, query, path).Scan(&dir.ID, &dir.Name, &dir.Path, &dir.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AllowedDirectory{}, ErrDirectoryNotFound
		}
		return models.AllowedDirectory{}, err
	}
	return dir, nil
}
