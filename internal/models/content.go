package models

import "time"

type Content struct {
	ID               string
	Filename         string
	OriginalFilename string
	Directory        string
	StoragePath      string
	FileSize         int64
	FileExtension    string
	MimeType         string
	PreviewPath      *string
	ExpiresAt        *time.Time
	UploadedByID     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether the record's expiry has passed at the given instant.
// Content with no expiry never expires.
func (c Content) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

type ShortSlug struct {
	ID        string
	Slug      string
	ContentID string
	CreatedAt time.Time
}

type AllowedDirectory struct {
	ID        string
	Name      string
	Path      string
	CreatedAt time.Time
}
