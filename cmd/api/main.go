package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/api"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/auth"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/config"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/database"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/mail"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	logger.Info("database ready",
		slog.String("host", cfg.Database.Host),
		slog.String("name", cfg.Database.Name),
	)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("init blob store: %v", err)
	}
	logger.Info("blob store ready", slog.String("backend", cfg.Storage.Backend))

	privateKey, err := os.ReadFile(cfg.JWT.PrivateKeyPath)
	if err != nil {
		log.Fatalf("read jwt private key: %v", err)
	}
	publicKey, err := os.ReadFile(cfg.JWT.PublicKeyPath)
	if err != nil {
		log.Fatalf("read jwt public key: %v", err)
	}
	authService, err := auth.NewAuthService(privateKey, publicKey,
		cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, cfg.JWT.VerificationTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	mailer := mail.NewMailer(cfg.SMTP, cfg.API.PublicBaseURL, logger)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, cfg, db, asynqClient, authService, redisClient, logger, blobs, mailer)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:    address,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", slog.String("address", address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
}

func newBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.Storage.Backend {
	case "filesystem":
		return storage.NewFileStore(cfg.Storage.UploadsDir)
	default:
		return storage.NewMinioStore(cfg.MinIO)
	}
}
