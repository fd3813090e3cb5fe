package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/mail"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/tasks"
)

// EmailTaskHandler consumes queued verification email sends.
type EmailTaskHandler struct {
	mailer *mail.Mailer
	logger *slog.Logger
}

// NewEmailTaskHandler builds the handler.
func NewEmailTaskHandler(mailer *mail.Mailer, logger *slog.Logger) *EmailTaskHandler {
	return &EmailTaskHandler{mailer: mailer, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *EmailTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.EmailVerifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal email payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("to", payload.Email),
	)

	if err := h.mailer.SendVerification(payload.Email, payload.Token); err != nil {
		log.Error("send verification email failed", slog.Any("error", err))
		return err
	}

	log.Info("verification email dispatched")
	return nil
}
