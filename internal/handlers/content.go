package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"filedrop/internal/middleware"
	"filedrop/internal/models"
	"filedrop/internal/service"
)

func (h HandlerSet) ServeContentByID(c *gin.Context) {
	record, body, err := h.content.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.serveFile(c, record, body)
}

func (h HandlerSet) ServeContentBySlug(c *gin.Context) {
	record, body, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.serveFile(c, record, body)
}

func (h HandlerSet) serveFile(c *gin.Context, record models.Content, body io.ReadCloser) {
	defer body.Close()

	c.Header("Content-Type", record.MimeType)
	c.Header("Content-Length", strconv.FormatInt(record.FileSize, 10))
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", record.Filename))
	// Never let a served file run scripts against this origin.
	c.Header("Content-Security-Policy", "default-src 'none'; sandbox")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, body); err != nil {
		h.log.Warn().Err(err).Str("content_id", record.ID).Msg("serve interrupted")
	}
}

type uploadResponse struct {
	ID        string     `json:"id"`
	Filename  string     `json:"filename"`
	URL       string     `json:"url"`
	Slug      string     `json:"slug,omitempty"`
	SizeBytes int64      `json:"sizeBytes"`
	MimeType  string     `json:"mimeType"`
	ExpiresAt *time.Time `json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (h HandlerSet) Upload(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	defer file.Close()

	result, err := h.upload.Upload(c.Request.Context(), service.UploadInput{
		User:       models.User{ID: claims.UserID, Role: claims.Role},
		Filename:   header.Filename,
		Size:       header.Size,
		Body:       file,
		Expiry:     c.PostForm("expiry"),
		Directory:  c.PostForm("directory"),
		CustomSlug: c.PostForm("slug"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"content": uploadResponse{
			ID:        result.Content.ID,
			Filename:  result.Content.Filename,
			URL:       result.URL,
			Slug:      result.Slug,
			SizeBytes: result.Content.FileSize,
			MimeType:  result.Content.MimeType,
			ExpiresAt: result.Content.ExpiresAt,
			CreatedAt: result.Content.CreatedAt,
		},
	})
}
