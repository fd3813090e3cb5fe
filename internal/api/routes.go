package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/api/middleware"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/auth"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/config"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/storage"
)

// RegisterRoutes wires all API routes under /v1.
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	blobs storage.BlobStore,
	contactRelay ContactRelay,
) {
	dispatcher := &AsynqVerificationDispatcher{Client: asynqClient}
	authHandler := NewAuthHandler(
		db,
		authService,
		redisClient,
		logger,
		dispatcher,
		contactRelay,
		cfg.Auth.MinPasswordLength,
		cfg.Auth.BlockOnVerificationEmail,
		cfg.Auth.LoginRateLimitPerHour,
	)
	resumeHandler := NewResumeHandler(db, asynqClient, blobs, logger)
	uploadHandler := NewUploadHandler(db, blobs, logger, cfg.Upload.ClamdAddr, cfg.Upload.MaxBytes, cfg.Upload.MIMEWhitelist)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.AllowedOrigins)
	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/verify", authHandler.Verify)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
			authGroup.GET("/profile", authMiddleware, authHandler.Profile)
			authGroup.POST("/contact", authHandler.Contact)
		}

		resumeGroup := v1.Group("/resumes")
		{
			// Exported artifacts are embedded by shared preview pages, so
			// the streaming endpoints stay public.
			resumeGroup.GET("/:id/thumbnail", uploadHandler.StreamThumbnail)
			resumeGroup.GET("/:id/profile-image", uploadHandler.StreamProfileImage)

			owned := resumeGroup.Group("")
			owned.Use(authMiddleware)
			{
				owned.POST("", resumeHandler.CreateResume)
				owned.GET("", resumeHandler.ListResumes)
				owned.GET("/:id", resumeHandler.GetResume)
				owned.PUT("/:id", resumeHandler.UpdateResume)
				owned.DELETE("/:id", resumeHandler.DeleteResume)
				owned.POST("/:id/export", resumeHandler.ExportResume)
				owned.PUT("/:id/upload-images", uploadHandler.UploadImages)
			}
		}
	}
}
