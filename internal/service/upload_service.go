package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"filedrop/internal/ids"
	"filedrop/internal/models"
	"filedrop/internal/permissions"
	"filedrop/internal/repository"
	"filedrop/internal/storage"
	"filedrop/internal/validation"
)

type UploadInput struct {
	User     models.User
	Filename string
	Size     int64
	Body     io.Reader

	// Expiry is the raw form value: "", "off", or hours.
	Expiry string

	// Directory and CustomSlug are admin-only extras.
	Directory  string
	CustomSlug string
}

type UploadResult struct {
	Content models.Content
	Slug    string
	URL     string
}

type UploadService struct {
	content     *repository.ContentRepository
	slugs       *repository.SlugRepository
	directories *repository.DirectoryRepository
	allocator   *ids.Allocator
	store       storage.FileStore

	baseURL   string
	userQuota int64

	log zerolog.Logger
	now func() time.Time
}

func NewUploadService(
	content *repository.ContentRepository,
	slugs *repository.SlugRepository,
	directories *repository.DirectoryRepository,
	store storage.FileStore,
	baseURL string,
	userQuota int64,
	log zerolog.Logger,
) *UploadService {
	return &UploadService{
		content:     content,
		slugs:       slugs,
		directories: directories,
		allocator:   ids.NewAllocator(content.Exists),
		store:       store,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		userQuota:   userQuota,
		log:         log,
		now:         time.Now,
	}
}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if !permissions.CanUpload(input.User.Role) {
		return UploadResult{}, fmt.Errorf("%w: insufficient permissions to upload", ErrForbidden)
	}
	if input.Body == nil {
		return UploadResult{}, invalid("no file provided")
	}

	filename := validation.SanitizeFilename(input.Filename)
	ext, err := validation.ValidateExtension(filename)
	if err != nil {
		return UploadResult{}, invalid(err.Error())
	}
	if err := validation.ValidateFileSize(input.Size); err != nil {
		return UploadResult{}, invalid(err.Error())
	}

	now := s.now()
	expiresAt, err := validation.ValidateExpiry(input.User.Role, input.Expiry, now)
	if err != nil {
		return UploadResult{}, invalid(err.Error())
	}

	used, err := s.content.SumSizeByUser(ctx, input.User.ID)
	if err != nil {
		return UploadResult{}, fmt.Errorf("check quota: %w", err)
	}
	if used+input.Size > s.userQuota {
		return UploadResult{}, invalid("Storage limit exceeded")
	}

	directory, err := s.resolveDirectory(ctx, input)
	if err != nil {
		return UploadResult{}, err
	}

	customSlug := ""
	if input.CustomSlug != "" {
		if !permissions.IsAdmin(input.User.Role) {
			return UploadResult{}, fmt.Errorf("%w: only admins can assign custom slugs", ErrForbidden)
		}
		slug, ok, reason := validation.ValidateSlug(input.CustomSlug)
		if !ok {
			return UploadResult{}, invalid(reason)
		}
		customSlug = slug
	}

	// Allocation failure is fatal to the upload; it is never retried
	// beyond the allocator's own attempts.
	contentID, err := s.allocator.Generate(ctx)
	if err != nil {
		return UploadResult{}, fmt.Errorf("allocate content id: %w", err)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(input.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}
	head = head[:n]
	mimeType := validation.DetectMIME(head, filename)

	storagePath := path.Join(directory, contentID+ext)
	body := io.MultiReader(bytes.NewReader(head), input.Body)
	if err := s.store.Save(ctx, storagePath, body, input.Size, mimeType); err != nil {
		return UploadResult{}, fmt.Errorf("store file: %w", err)
	}

	record := models.Content{
		ID:               contentID,
		Filename:         filename,
		OriginalFilename: input.Filename,
		Directory:        directory,
		StoragePath:      storagePath,
		FileSize:         input.Size,
		FileExtension:    ext,
		MimeType:         mimeType,
		ExpiresAt:        expiresAt,
		UploadedByID:     input.User.ID,
	}
	if err := s.content.Create(ctx, record); err != nil {
		s.discard(ctx, storagePath)
		return UploadResult{}, fmt.Errorf("save metadata: %w", err)
	}

	if customSlug != "" {
		err := s.slugs.Create(ctx, models.ShortSlug{
			ID:        ids.NewRowID(),
			Slug:      customSlug,
			ContentID: contentID,
		})
		if err != nil {
			if dErr := s.content.Delete(ctx, contentID); dErr != nil {
				s.log.Error().Err(dErr).Str("content_id", contentID).Msg("rollback content failed")
			}
			s.discard(ctx, storagePath)
			if errors.Is(err, repository.ErrSlugTaken) {
				return UploadResult{}, invalid("slug already taken")
			}
			return UploadResult{}, fmt.Errorf("save slug: %w", err)
		}
	}

	s.log.Info().
		Str("content_id", contentID).
		Str("user_id", input.User.ID).
		Int64("size", input.Size).
		Msg("content uploaded")

	return UploadResult{
		Content: record,
		Slug:    customSlug,
		URL:     fmt.Sprintf("%s/c/%s", s.baseURL, contentID),
	}, nil
}

func (s *UploadService) resolveDirectory(ctx context.Context, input UploadInput) (string, error) {
	if input.Directory == "" {
		return "", nil
	}
	if !permissions.IsAdmin(input.User.Role) {
		return "", fmt.Errorf("%w: only admins can choose a directory", ErrForbidden)
	}
	dir, err := s.directories.GetByPath(ctx, input.Directory)
	if err != nil {
		if errors.Is(err, repository.ErrDirectoryNotFound) {
			return "", invalid("directory is not allowed")
		}
		return "", err
	}
	return dir.Path, nil
}

func (s *UploadService) discard(ctx context.Context, storagePath string) {
	if err := s.store.Delete(ctx, storagePath); err != nil {
		s.log.Error().Err(err).Str("path", storagePath).Msg("discard stored file failed")
	}
}

// AddSlug attaches another slug to existing content.
func (s *UploadService) AddSlug(ctx context.Context, actor models.User, contentID, rawSlug string) (string, error) {
	if !permissions.IsAdmin(actor.Role) {
		return "", fmt.Errorf("%w: only admins can assign custom slugs", ErrForbidden)
	}

	slug, ok, reason := validation.ValidateSlug(rawSlug)
	if !ok {
		return "", invalid(reason)
	}
	if _, err := s.content.GetByID(ctx, contentID); err != nil {
		return "", err
	}

	err := s.slugs.Create(ctx, models.ShortSlug{
		ID:        ids.NewRowID(),
		Slug:      slug,
		ContentID: contentID,
	})
	if errors.Is(err, repository.ErrSlugTaken) {
		return "", invalid("slug already taken")
	}
	if err != nil {
		return "", err
	}
	return slug, nil
}

// ListSlugs returns the slugs attached to a content record.
func (s *UploadService) ListSlugs(ctx context.Context, contentID string) ([]models.ShortSlug, error) {
	if _, err := s.content.GetByID(ctx, contentID); err != nil {
		return nil, err
	}
	return s.slugs.ListByContent(ctx, contentID)
}

// RemoveSlug detaches a slug; the content itself stays reachable by id.
func (s *UploadService) RemoveSlug(ctx context.Context, actor models.User, slug string) error {
	if !permissions.IsAdmin(actor.Role) {
		return fmt.Errorf("%w: only admins can remove slugs", ErrForbidden)
	}
	return s.slugs.Delete(ctx, slug)
}
