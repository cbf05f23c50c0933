package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"filedrop/internal/config"
	"filedrop/internal/middleware"
	"filedrop/internal/models"
	"filedrop/internal/repository"
	"filedrop/internal/service"
	"filedrop/internal/storage"
)

type HandlerSet struct {
	log   zerolog.Logger
	cfg   *config.AppConfig
	db    *pgxpool.Pool
	cache *redis.Client

	auth    *service.AuthService
	upload  *service.UploadService
	content *service.ContentService
	admin   *service.AdminService
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	db *pgxpool.Pool,
	cache *redis.Client,
	store storage.FileStore,
	auth *service.AuthService,
	content *service.ContentService,
) HandlerSet {
	contentRepo := repository.NewContentRepository(db)
	slugRepo := repository.NewSlugRepository(db)
	dirRepo := repository.NewDirectoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	return HandlerSet{
		log:   log,
		cfg:   cfg,
		db:    db,
		cache: cache,
		auth:  auth,
		upload: service.NewUploadService(
			contentRepo, slugRepo, dirRepo, store,
			cfg.BaseURL, cfg.Upload.UserQuotaBytes, log,
		),
		content: content,
		admin: service.NewAdminService(
			userRepo, inviteRepo, dirRepo,
			cfg.Security.InviteTTL, cfg.BaseURL, log,
		),
	}
}

func (h HandlerSet) Routes(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	// Public retrieval: the short id doubles as the access token.
	router.GET("/c/:id", h.ServeContentByID)
	router.GET("/s/:slug", h.ServeContentBySlug)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
		auth.POST("/password", h.ChangePassword)

		api.GET("/invite/:token", h.ValidateInvite)
		api.POST("/invite/:token", h.RedeemInvite)

		api.POST("/upload",
			middleware.RequireRole(models.RoleUploader),
			h.Upload,
		)

		admin := api.Group("/admin", middleware.RequireRole(models.RoleAdmin))
		admin.GET("/users", h.AdminListUsers)
		admin.POST("/users", h.AdminCreateUser)
		admin.POST("/users/invite", h.AdminCreateInvite)
		admin.GET("/users/:id", h.AdminGetUser)
		admin.PUT("/users/:id", h.AdminUpdateUser)
		admin.DELETE("/users/:id", h.AdminDeleteUser)

		admin.GET("/content", h.AdminListContent)
		admin.DELETE("/content/:id", h.AdminDeleteContent)
		admin.GET("/content/:id/slugs", h.AdminListSlugs)
		admin.POST("/content/:id/slugs", h.AdminAddSlug)
		admin.DELETE("/content/:id/slugs/:slug", h.AdminRemoveSlug)

		admin.GET("/directories", h.AdminListDirectories)
		admin.POST("/directories", h.AdminCreateDirectory)
	}
}

// respondError maps service and repository errors onto HTTP statuses.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	var vErr service.ValidationError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Reason})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrContentNotFound),
		errors.Is(err, repository.ErrInviteNotFound),
		errors.Is(err, repository.ErrDirectoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
	case errors.Is(err, repository.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already taken"})
	case errors.Is(err, service.ErrInviteUsed):
		c.JSON(http.StatusGone, gin.H{"error": "this invite link has already been used"})
	case errors.Is(err, service.ErrInviteExpired):
		c.JSON(http.StatusGone, gin.H{"error": "this invite link has expired"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
