package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"filedrop/internal/models"
	"filedrop/internal/repository"
	"filedrop/internal/storage"
	"filedrop/internal/validation"
)

// ContentService resolves short IDs and slugs to stored files. Expired
// records are reported as missing, same as unknown IDs.
type ContentService struct {
	content *repository.ContentRepository
	store   storage.FileStore
	log     zerolog.Logger
	now     func() time.Time
}

func NewContentService(content *repository.ContentRepository, store storage.FileStore, log zerolog.Logger) *ContentService {
	return &ContentService{
		content: content,
		store:   store,
		log:     log,
		now:     time.Now,
	}
}

func (s *ContentService) GetByID(ctx context.Context, id string) (models.Content, io.ReadCloser, error) {
	record, err := s.content.GetByID(ctx, id)
	if err != nil {
		return models.Content{}, nil, err
	}
	return s.open(ctx, record)
}

func (s *ContentService) GetBySlug(ctx context.Context, rawSlug string) (models.Content, io.ReadCloser, error) {
	slug, ok, _ := validation.ValidateSlug(rawSlug)
	if !ok {
		return models.Content{}, nil, repository.ErrContentNotFound
	}
	record, err := s.content.GetBySlug(ctx, slug)
	if err != nil {
		return models.Content{}, nil, err
	}
	return s.open(ctx, record)
}

func (s *ContentService) open(ctx context.Context, record models.Content) (models.Content, io.ReadCloser, error) {
	if record.Expired(s.now()) {
		return models.Content{}, nil, repository.ErrContentNotFound
	}
	body, err := s.store.Open(ctx, record.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Error().Str("content_id", record.ID).Msg("content row without stored file")
			return models.Content{}, nil, repository.ErrContentNotFound
		}
		return models.Content{}, nil, err
	}
	return record, body, nil
}

// List backs the admin content browser.
func (s *ContentService) List(ctx context.Context, filter repository.ExpiryFilter, limit, offset int) ([]models.Content, error) {
	return s.content.List(ctx, filter, limit, offset)
}

// Delete removes the stored file and then the record; slugs cascade in the
// database.
func (s *ContentService) Delete(ctx context.Context, id string) error {
	record, err := s.content.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, record.StoragePath); err != nil {
		return err
	}
	return s.content.Delete(ctx, id)
}

// PurgeExpired deletes every record past its expiry along with its file.
// Called from the cron scheduler and once at startup.
func (s *ContentService) PurgeExpired(ctx context.Context) (int, error) {
	expired, err := s.content.ListExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, record := range expired {
		if err := s.store.Delete(ctx, record.StoragePath); err != nil {
			s.log.Error().Err(err).Str("content_id", record.ID).Msg("purge file failed")
			continue
		}
		if err := s.content.Delete(ctx, record.ID); err != nil {
			s.log.Error().Err(err).Str("content_id", record.ID).Msg("purge row failed")
			continue
		}
		purged++
	}

	if purged > 0 {
		s.log.Info().Int("purged", purged).Msg("expired content removed")
	}
	return purged, nil
}
