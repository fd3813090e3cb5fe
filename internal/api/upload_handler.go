package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/api/middleware"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/database"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/storage"
)

var errMaliciousFile = errors.New("malicious file detected")

// UploadHandler attaches thumbnail and profile images to a resume and
// streams stored blobs back out.
type UploadHandler struct {
	db            *gorm.DB
	blobs         storage.BlobStore
	logger        *slog.Logger
	clamdAddr     string
	maxBytes      int64
	mimeWhitelist []string
}

// NewUploadHandler builds the handler. An empty clamdAddr disables
// virus scanning.
func NewUploadHandler(db *gorm.DB, blobs storage.BlobStore, logger *slog.Logger, clamdAddr string, maxBytes int64, mimeWhitelist []string) *UploadHandler {
	return &UploadHandler{
		db:            db,
		blobs:         blobs,
		logger:        logger,
		clamdAddr:     clamdAddr,
		maxBytes:      maxBytes,
		mimeWhitelist: mimeWhitelist,
	}
}

func (h *UploadHandler) mimeAllowed(contentType string) bool {
	for _, allowed := range h.mimeWhitelist {
		if contentType == allowed {
			return true
		}
	}
	return false
}

// scan streams the file through clamd. A missing clamd address skips
// scanning.
func (h *UploadHandler) scan(file *multipart.FileHeader) error {
	if h.clamdAddr == "" {
		return nil
	}

	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}

	clamdClient := clamd.NewClamd(h.clamdAddr)
	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(reader, abortChan)
	_ = reader.Close()
	if err != nil {
		return fmt.Errorf("scan upload: %w", err)
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return errMaliciousFile
		}
	}
	return nil
}

// storeImage validates, scans and stores one uploaded image, returning
// the object key and content type.
func (h *UploadHandler) storeImage(c *gin.Context, file *multipart.FileHeader, userID uint, kind string) (key, contentType string, err error) {
	if file.Size > h.maxBytes {
		return "", "", fmt.Errorf("file exceeds %d bytes", h.maxBytes)
	}
	contentType = file.Header.Get("Content-Type")
	if !h.mimeAllowed(contentType) {
		return "", "", fmt.Errorf("content type %q not allowed", contentType)
	}

	if err := h.scan(file); err != nil {
		return "", "", err
	}

	reader, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer reader.Close()

	key = fmt.Sprintf("%s/%d/%s", kind, userID, uuid.NewString())
	if err := h.blobs.Put(c.Request.Context(), key, reader, file.Size, contentType); err != nil {
		return "", "", fmt.Errorf("store upload: %w", err)
	}
	return key, contentType, nil
}

// UploadImages handles the multipart upload of "thumbnail" and
// "profileImage" files for an owned resume. Either or both may be
// present.
func (h *UploadHandler) UploadImages(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, ok := h.findOwned(c, userID)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "multipart form required")
		return
	}

	logger := h.loggerFromContext(c).With(slog.Uint64("resume_id", uint64(resume.ID)))
	update := map[string]any{}
	oldKeys := []string{}

	if files := form.File["thumbnail"]; len(files) > 0 {
		key, contentType, err := h.storeImage(c, files[0], userID, "thumbnails")
		if err != nil {
			h.replyUploadError(c, logger, "thumbnail", err)
			return
		}
		if resume.ThumbnailKey != "" {
			oldKeys = append(oldKeys, resume.ThumbnailKey)
		}
		update["thumbnail_key"] = key
		update["thumbnail_content_type"] = contentType
		resume.ThumbnailKey = key
		resume.ThumbnailContentType = contentType
	}

	if files := form.File["profileImage"]; len(files) > 0 {
		key, contentType, err := h.storeImage(c, files[0], userID, "profile-images")
		if err != nil {
			h.replyUploadError(c, logger, "profileImage", err)
			return
		}
		if resume.ProfileImageKey != "" {
			oldKeys = append(oldKeys, resume.ProfileImageKey)
		}
		update["profile_image_key"] = key
		update["profile_image_content_type"] = contentType
		resume.ProfileImageKey = key
		resume.ProfileImageContentType = contentType
	}

	if len(update) == 0 {
		BadRequest(c, "no thumbnail or profileImage file in request")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(resume).Updates(update).Error; err != nil {
		logger.Error("update resume image keys failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	// Replaced blobs are orphans now; unlink them best-effort.
	for _, key := range oldKeys {
		if err := h.blobs.Delete(c.Request.Context(), key); err != nil {
			logger.Warn("delete replaced blob failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Images uploaded successfully.",
		"thumbnailLink":    fmt.Sprintf("/v1/resumes/%d/thumbnail", resume.ID),
		"profileImageLink": fmt.Sprintf("/v1/resumes/%d/profile-image", resume.ID),
	})
}

func (h *UploadHandler) replyUploadError(c *gin.Context, logger *slog.Logger, field string, err error) {
	if errors.Is(err, errMaliciousFile) {
		logger.Warn("upload rejected by virus scan", slog.String("field", field))
		BadRequest(c, "malicious file detected")
		return
	}
	logger.Error("store upload failed", slog.String("field", field), slog.Any("error", err))
	BadRequest(c, err.Error())
}

// StreamThumbnail serves the stored thumbnail with its content type.
// Public: thumbnails back resume previews on shared pages.
func (h *UploadHandler) StreamThumbnail(c *gin.Context) {
	h.streamBlob(c, func(resume *database.Resume) (string, string) {
		return resume.ThumbnailKey, resume.ThumbnailContentType
	})
}

// StreamProfileImage serves the stored profile image.
func (h *UploadHandler) StreamProfileImage(c *gin.Context) {
	h.streamBlob(c, func(resume *database.Resume) (string, string) {
		return resume.ProfileImageKey, resume.ProfileImageContentType
	})
}

func (h *UploadHandler) streamBlob(c *gin.Context, pick func(*database.Resume) (string, string)) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		NotFound(c, msgResumeNotFound)
		return
	}

	var resume database.Resume
	if err := h.db.WithContext(c.Request.Context()).First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, msgResumeNotFound)
			return
		}
		h.loggerFromContext(c).Error("resume lookup failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	key, storedType := pick(&resume)
	if key == "" {
		NotFound(c, "image not found")
		return
	}

	reader, contentType, err := h.blobs.Get(c.Request.Context(), key)
	if err != nil {
		if storage.IsNoSuchKey(err) {
			NotFound(c, "image not found")
			return
		}
		h.loggerFromContext(c).Error("open blob failed", slog.String("key", key), slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	defer reader.Close()

	if storedType != "" {
		contentType = storedType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.loggerFromContext(c).Warn("stream blob interrupted", slog.String("key", key), slog.Any("error", err))
	}
}

// findOwned mirrors the resume handler's ownership-conflating lookup.
func (h *UploadHandler) findOwned(c *gin.Context, userID uint) (*database.Resume, bool) {
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

func (h *UploadHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
