package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/config"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/database"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/mail"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/metrics"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/storage"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/tasks"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	logger.Info("database connection ready for worker")

	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("init blob store: %v", err)
	}
	logger.Info("blob store ready", slog.String("backend", cfg.Storage.Backend))

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	mailer := mail.NewMailer(cfg.SMTP, cfg.API.PublicBaseURL, logger)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr()}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
	})

	exportHandler := worker.NewExportTaskHandler(db, blobs, redisClient, logger)
	emailHandler := worker.NewEmailTaskHandler(mailer, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeResumeExport, exportHandler)
	mux.Handle(tasks.TypeEmailVerify, emailHandler)

	logger.Info("worker service started", slog.String("redis_addr", cfg.Redis.Addr()))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
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
