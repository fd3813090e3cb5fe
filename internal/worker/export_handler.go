// Package worker consumes queued background tasks: resume PDF export
// and verification email delivery.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/database"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/document"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/pdf"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/render"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/storage"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/tasks"
)

const thumbnailQuality = 80

// ExportTaskHandler consumes resume export tasks: it renders the
// stored document to print HTML, converts it to PDF and thumbnail in a
// headless browser, stores both artifacts and notifies the user.
type ExportTaskHandler struct {
	db          *gorm.DB
	blobs       storage.BlobStore
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewExportTaskHandler builds the handler.
func NewExportTaskHandler(db *gorm.DB, blobs storage.BlobStore, redisClient *redis.Client, logger *slog.Logger) *ExportTaskHandler {
	return &ExportTaskHandler{
		db:          db,
		blobs:       blobs,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ProcessTask implements asynq.Handler.
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	var payload tasks.ResumeExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal export payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("resume_id", int(payload.ResumeID)),
	)
	log.Info("starting resume export task")

	var resume database.Resume
	err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", payload.ResumeID, payload.UserID).
		First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("resume not found, skipping export")
			return nil
		}
		log.Error("query resume failed", slog.Any("error", err))
		return err
	}

	defer func() {
		if retErr == nil || !isFinalAsynqAttempt(ctx) {
			return
		}
		notify := ExportNotifyMessage{
			Status:        NotifyStatusError,
			ResumeID:      resume.ID,
			CorrelationID: payload.CorrelationID,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publishNotify(ctx, resume.UserID, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	doc, err := document.Decode(resume.Content)
	if err != nil {
		log.Error("decode resume document failed", slog.Any("error", err))
		return err
	}

	html, err := render.Print(render.Layout(doc, payload.TemplateID))
	if err != nil {
		log.Error("render print html failed", slog.Any("error", err))
		return err
	}

	page, cleanup, err := pdf.OpenPage(html)
	if err != nil {
		log.Error("open export page failed", slog.Any("error", err))
		return err
	}
	defer cleanup()

	pdfBytes, err := pdf.ExportPDF(page)
	if err != nil {
		log.Error("export pdf failed", slog.Any("error", err))
		return err
	}

	pdfKey := fmt.Sprintf("exports/%d/%s.pdf", resume.UserID, uuid.NewString())
	if err := h.blobs.Put(ctx, pdfKey, bytes.NewReader(pdfBytes), int64(len(pdfBytes)), "application/pdf"); err != nil {
		log.Error("store pdf failed", slog.Any("error", err))
		return err
	}

	update := map[string]any{"pdf_key": pdfKey}

	thumbnailKey := ""
	if thumbBytes, thumbErr := pdf.CaptureThumbnail(page, thumbnailQuality); thumbErr != nil {
		// The PDF is the deliverable; a failed preview is not.
		log.Warn("capture thumbnail failed", slog.Any("error", thumbErr))
	} else {
		thumbnailKey = fmt.Sprintf("thumbnails/%d/%d.jpg", resume.UserID, resume.ID)
		if err := h.blobs.Put(ctx, thumbnailKey, bytes.NewReader(thumbBytes), int64(len(thumbBytes)), "image/jpeg"); err != nil {
			log.Warn("store thumbnail failed", slog.Any("error", err))
			thumbnailKey = ""
		} else {
			update["thumbnail_key"] = thumbnailKey
			update["thumbnail_content_type"] = "image/jpeg"
		}
	}

	if err := h.db.WithContext(ctx).Model(&resume).Updates(update).Error; err != nil {
		log.Error("update resume artifacts failed", slog.Any("error", err))
		return err
	}

	notify := ExportNotifyMessage{
		Status:        NotifyStatusCompleted,
		ResumeID:      resume.ID,
		CorrelationID: payload.CorrelationID,
		PdfKey:        pdfKey,
		ThumbnailKey:  thumbnailKey,
	}
	if err := h.publishNotify(ctx, resume.UserID, notify); err != nil {
		log.Error("publish export notification failed", slog.Any("error", err))
		return err
	}

	log.Info("resume export task completed")
	return nil
}

func (h *ExportTaskHandler) publishNotify(ctx context.Context, userID uint, notify ExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := h.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
