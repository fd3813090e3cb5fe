package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/api/middleware"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/database"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/document"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/render"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/storage"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/tasks"
)

// Absent and not-owned are deliberately indistinguishable so callers
// cannot probe for other users' resume ids.
const msgResumeNotFound = "resume not found or not authorized"

// ResumeHandler implements the resume document lifecycle.
type ResumeHandler struct {
	db          *gorm.DB
	asynqClient *asynq.Client
	blobs       storage.BlobStore
	logger      *slog.Logger
}

// NewResumeHandler builds the handler.
func NewResumeHandler(db *gorm.DB, asynqClient *asynq.Client, blobs storage.BlobStore, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{db: db, asynqClient: asynqClient, blobs: blobs, logger: logger}
}

type resumeResponse struct {
	ID               uint            `json:"id"`
	Title            string          `json:"title"`
	Content          json.RawMessage `json:"content"`
	Completion       int             `json:"completion"`
	ThumbnailLink    string          `json:"thumbnailLink,omitempty"`
	ProfileImageLink string          `json:"profileImageLink,omitempty"`
	PdfKey           string          `json:"pdfKey,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (h *ResumeHandler) toResponse(resume database.Resume) resumeResponse {
	resp := resumeResponse{
		ID:        resume.ID,
		Title:     resume.Title,
		Content:   json.RawMessage(resume.Content),
		PdfKey:    resume.PdfKey,
		CreatedAt: resume.CreatedAt,
		UpdatedAt: resume.UpdatedAt,
	}

	if doc, err := document.Decode(resume.Content); err == nil {
		resp.Completion = document.Completion(doc)
	}

	// Blob-backed artifacts are exposed through the public streaming
	// endpoints; link-backed ones keep their stored URL.
	switch {
	case resume.ThumbnailKey != "":
		resp.ThumbnailLink = fmt.Sprintf("/v1/resumes/%d/thumbnail", resume.ID)
	case resume.ThumbnailLink != "":
		resp.ThumbnailLink = resume.ThumbnailLink
	}
	switch {
	case resume.ProfileImageKey != "":
		resp.ProfileImageLink = fmt.Sprintf("/v1/resumes/%d/profile-image", resume.ID)
	case resume.ProfileImageLink != "":
		resp.ProfileImageLink = resume.ProfileImageLink
	}

	return resp
}

// findOwned loads a resume filtered by both id and owner.
func (h *ResumeHandler) findOwned(c *gin.Context, userID uint) (*database.Resume, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		NotFound(c, msgResumeNotFound)
		return nil, false
	}

	var resume database.Resume
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, userID).
		First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, msgResumeNotFound)
			return nil, false
		}
		h.loggerFromContext(c).Error("resume lookup failed", slog.Any("error", err))
		Internal(c, "internal error")
		return nil, false
	}
	return &resume, true
}

// CreateResume creates a resume with the default skeleton document,
// shallow-merging any top-level document fields sent with the title.
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, err.Error())
		return
	}

	var title string
	if raw, ok := body["title"]; ok {
		if err := json.Unmarshal(raw, &title); err != nil {
			BadRequest(c, "title must be a string")
			return
		}
		delete(body, "title")
	}
	if title == "" {
		BadRequest(c, "title is required")
		return
	}

	skeleton, err := document.Encode(document.Default())
	if err != nil {
		h.loggerFromContext(c).Error("encode skeleton failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	content := skeleton
	if len(body) > 0 {
		content, err = document.Merge(skeleton, body)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
	}

	resume := database.Resume{
		Title:   title,
		UserID:  userID,
		Content: datatypes.JSON(content),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&resume).Error; err != nil {
		h.loggerFromContext(c).Error("create resume failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusCreated, h.toResponse(resume))
}

// ListResumes returns the caller's resumes, newest updated first.
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var resumes []database.Resume
	err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&resumes).Error
	if err != nil {
		h.loggerFromContext(c).Error("list resumes failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	items := make([]resumeResponse, 0, len(resumes))
	for _, resume := range resumes {
		items = append(items, h.toResponse(resume))
	}
	c.JSON(http.StatusOK, gin.H{"resumes": items})
}

// GetResume fetches one owned resume.
func (h *ResumeHandler) GetResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, ok := h.findOwned(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.toResponse(*resume))
}

// UpdateResume applies a shallow top-level merge of the request body
// into the stored document. "title" updates the row column instead.
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, ok := h.findOwned(c, userID)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, err.Error())
		return
	}

	update := map[string]any{}
	if raw, ok := body["title"]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			BadRequest(c, "title must be a string")
			return
		}
		if title == "" {
			BadRequest(c, "title is required")
			return
		}
		update["title"] = title
		resume.Title = title
		delete(body, "title")
	}

	if len(body) > 0 {
		merged, err := document.Merge(resume.Content, body)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		update["content"] = datatypes.JSON(merged)
		resume.Content = datatypes.JSON(merged)
	}

	if len(update) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(resume).Updates(update).Error; err != nil {
			h.loggerFromContext(c).Error("update resume failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
	}

	c.JSON(http.StatusOK, h.toResponse(*resume))
}

// DeleteResume removes the row and best-effort deletes its blobs.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, ok := h.findOwned(c, userID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.Uint64("resume_id", uint64(resume.ID)))

	if err := h.db.WithContext(ctx).Delete(resume).Error; err != nil {
		logger.Error("delete resume failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	// The row is gone; failing to unlink an orphaned blob is not worth
	// surfacing to the caller.
	for _, key := range []string{resume.ThumbnailKey, resume.ProfileImageKey, resume.PdfKey} {
		if key == "" {
			continue
		}
		if err := h.blobs.Delete(ctx, key); err != nil {
			logger.Warn("delete resume blob failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resume deleted successfully."})
}

// ExportResume queues PDF and thumbnail generation for the resume.
func (h *ResumeHandler) ExportResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, ok := h.findOwned(c, userID)
	if !ok {
		return
	}

	templateID := render.TemplateClassic
	if doc, err := document.Decode(resume.Content); err == nil && doc.Template.Theme != "" {
		templateID = doc.Template.Theme
	}
	if c.Query("template") != "" {
		templateID = c.Query("template")
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewResumeExportTask(resume.ID, userID, templateID, correlationID)
	if err != nil {
		h.loggerFromContext(c).Error("build export task failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		h.loggerFromContext(c).Error("enqueue export task failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":       "Export started. You will be notified when the PDF is ready.",
		"correlationId": correlationID,
	})
}

func (h *ResumeHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
