package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"filedrop/internal/middleware"
	"filedrop/internal/models"
	"filedrop/internal/repository"
	"filedrop/internal/service"
)

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, userResponse{
			ID:           user.ID,
			Username:     user.Username,
			Role:         string(user.Role),
			ContentCount: user.ContentCount,
			CreatedAt:    user.CreatedAt,
			UpdatedAt:    user.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func (h HandlerSet) AdminCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.admin.CreateUser(c.Request.Context(), service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}})
}

type createInviteRequest struct {
	Username string `json:"username" binding:"required"`
	Role     string `json:"role"`
}

func (h HandlerSet) AdminCreateInvite(c *gin.Context) {
	var req createInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.admin.CreateInvite(c.Request.Context(), req.Username, req.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":       result.User.ID,
			"username": result.User.Username,
			"role":     string(result.User.Role),
		},
		"inviteUrl": result.URL,
		"expiresAt": result.ExpiresAt,
	})
}

func (h HandlerSet) AdminGetUser(c *gin.Context) {
	user, err := h.admin.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse{
		ID:           user.ID,
		Username:     user.Username,
		Role:         string(user.Role),
		ContentCount: user.ContentCount,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}})
}

type updateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h HandlerSet) AdminUpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.admin.UpdateUser(c.Request.Context(), c.Param("id"), service.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}})
}

func (h HandlerSet) AdminDeleteUser(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type contentItem struct {
	ID               string     `json:"id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"originalFilename"`
	Directory        string     `json:"directory"`
	FileSize         int64      `json:"fileSize"`
	FileExtension    string     `json:"fileExtension"`
	MimeType         string     `json:"mimeType"`
	HasPreview       bool       `json:"hasPreview"`
	ExpiresAt        *time.Time `json:"expiresAt"`
	UploadedByID     string     `json:"uploadedById"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (h HandlerSet) AdminListContent(c *gin.Context) {
	filter := repository.ExpiryFilter(c.Query("expired"))
	switch filter {
	case repository.ExpiryAll, repository.ExpiryActive, repository.ExpiryExpired:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "expired must be active or expired"})
		return
	}

	limit := 50
	offset := 0
	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}

	items, err := h.content.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Internal storage paths stay internal; only a preview flag goes out.
	resp := make([]contentItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, contentItem{
			ID:               item.ID,
			Filename:         item.Filename,
			OriginalFilename: item.OriginalFilename,
			Directory:        item.Directory,
			FileSize:         item.FileSize,
			FileExtension:    item.FileExtension,
			MimeType:         item.MimeType,
			HasPreview:       item.PreviewPath != nil,
			ExpiresAt:        item.ExpiresAt,
			UploadedByID:     item.UploadedByID,
			CreatedAt:        item.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"content": resp})
}

func (h HandlerSet) AdminDeleteContent(c *gin.Context) {
	if err := h.content.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addSlugRequest struct {
	Slug string `json:"slug" binding:"required"`
}

func (h HandlerSet) AdminAddSlug(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slug, err := h.upload.AddSlug(c.Request.Context(),
		models.User{ID: claims.UserID, Role: claims.Role}, c.Param("id"), req.Slug)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"slug": slug,
		"url":  h.cfg.BaseURL + "/s/" + slug,
	})
}

func (h HandlerSet) AdminListSlugs(c *gin.Context) {
	slugs, err := h.upload.ListSlugs(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	type slugItem struct {
		Slug      string    `json:"slug"`
		URL       string    `json:"url"`
		CreatedAt time.Time `json:"createdAt"`
	}
	resp := make([]slugItem, 0, len(slugs))
	for _, s := range slugs {
		resp = append(resp, slugItem{
			Slug:      s.Slug,
			URL:       h.cfg.BaseURL + "/s/" + s.Slug,
			CreatedAt: s.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"slugs": resp})
}

func (h HandlerSet) AdminRemoveSlug(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	err := h.upload.RemoveSlug(c.Request.Context(),
		models.User{ID: claims.UserID, Role: claims.Role}, c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) AdminListDirectories(c *gin.Context) {
	dirs, err := h.admin.ListDirectories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"directories": dirs})
}

type createDirectoryRequest struct {
	Name string `json:"name" binding:"required"`
	Path string `json:"path" binding:"required"`
}

func (h HandlerSet) AdminCreateDirectory(c *gin.Context) {
	var req createDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dir, err := h.admin.CreateDirectory(c.Request.Context(), req.Name, req.Path)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"directory": dir})
}
