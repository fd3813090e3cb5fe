package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/api/middleware"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/auth"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/database"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/tasks"
)

// VerificationDispatcher hands a verification email off for delivery.
// The production implementation enqueues a worker task; tests fake it.
type VerificationDispatcher interface {
	DispatchVerification(ctx context.Context, email, token, correlationID string) error
}

// AsynqVerificationDispatcher enqueues verification emails on the task
// queue.
type AsynqVerificationDispatcher struct {
	Client *asynq.Client
}

// DispatchVerification implements VerificationDispatcher.
func (d *AsynqVerificationDispatcher) DispatchVerification(_ context.Context, email, token, correlationID string) error {
	task, err := tasks.NewEmailVerifyTask(email, token, correlationID)
	if err != nil {
		return fmt.Errorf("build email task: %w", err)
	}
	if _, err := d.Client.Enqueue(task); err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}
	return nil
}

// ContactRelay forwards contact-form submissions to the operator.
type ContactRelay interface {
	RelayContactMessage(fromName, fromEmail, message string) error
}

// AuthHandler implements registration, verification, login, logout,
// token refresh, profile and the contact relay.
type AuthHandler struct {
	db                    *gorm.DB
	authService           *auth.AuthService
	redis                 redis.UniversalClient
	logger                *slog.Logger
	dispatcher            VerificationDispatcher
	contactRelay          ContactRelay
	minPasswordLength     int
	blockOnEmail          bool
	loginRateLimitPerHour int
}

// NewAuthHandler builds the handler.
func NewAuthHandler(
	db *gorm.DB,
	authService *auth.AuthService,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	dispatcher VerificationDispatcher,
	contactRelay ContactRelay,
	minPasswordLength int,
	blockOnEmail bool,
	loginRateLimitPerHour int,
) *AuthHandler {
	return &AuthHandler{
		db:                    db,
		authService:           authService,
		redis:                 redisClient,
		logger:                logger,
		dispatcher:            dispatcher,
		contactRelay:          contactRelay,
		minPasswordLength:     minPasswordLength,
		blockOnEmail:          blockOnEmail,
		loginRateLimitPerHour: loginRateLimitPerHour,
	}
}

type userResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	LastLogin  time.Time `json:"lastLogin"`
}

func toUserResponse(user database.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		LastLogin:  user.LastLogin,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// Register creates an unverified account and dispatches the
// verification email.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if len(req.Password) < h.minPasswordLength {
		BadRequest(c, fmt.Sprintf("password must be at least %d characters", h.minPasswordLength))
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	var existing database.User
	if err := h.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		logger.Info("register conflict: email already in use")
		Conflict(c, "email already in use")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("register lookup failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("hash password failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	user := database.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
	}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		logger.Error("create user failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	token, err := h.authService.GenerateVerificationToken(user.ID)
	if err != nil {
		logger.Error("generate verification token failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	if err := h.db.WithContext(ctx).Model(&user).Update("verification_token", token).Error; err != nil {
		logger.Error("store verification token failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	if err := h.dispatcher.DispatchVerification(ctx, user.Email, token, correlationID); err != nil {
		if h.blockOnEmail {
			logger.Error("dispatch verification email failed", slog.Any("error", err))
			Internal(c, "failed to send verification email")
			return
		}
		// Fire-and-forget policy: registration stands regardless of
		// mail transport outcome.
		logger.Warn("dispatch verification email failed", slog.Any("error", err))
	}

	logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please verify your email.",
		"user":    toUserResponse(user),
	})
}

// Verify consumes the verification token carried as a bearer token.
func (h *AuthHandler) Verify(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		Unauthorized(c)
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c)

	claims, err := h.authService.ValidateTokenOfType(parts[1], auth.TokenTypeVerification)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			logger.Info("verification token expired")
			Error(c, http.StatusUnauthorized, "token expired")
			return
		}
		logger.Info("verification token invalid", slog.Any("error", err))
		Unauthorized(c)
		return
	}

	var user database.User
	if err := h.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		logger.Error("verify lookup failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if user.IsVerified {
		c.JSON(http.StatusOK, gin.H{"message": "Email already verified."})
		return
	}

	update := map[string]any{
		"is_verified":        true,
		"verification_token": "",
	}
	if err := h.db.WithContext(ctx).Model(&user).Updates(update).Error; err != nil {
		logger.Error("verify update failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	logger.Info("user verified", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully."})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials, replaces the user's session row and
// returns a fresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	// Rate limit: per IP and email, counted per clock hour.
	rateKey := "rate:login:" + c.ClientIP() + ":" + email + ":" + time.Now().UTC().Format("2006010215")
	count, err := incrWithTTL(ctx, h.redis, rateKey, time.Hour)
	if err != nil {
		count = 0
	}
	if count > int64(h.loginRateLimitPerHour) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	var user database.User
	if err := h.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("login failed: user not found")
			Error(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		logger.Error("login query failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Info("login failed: password mismatch", slog.Uint64("user_id", uint64(user.ID)))
		Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !user.IsVerified {
		logger.Info("login blocked: account not verified", slog.Uint64("user_id", uint64(user.ID)))
		Forbidden(c, "account not verified")
		return
	}

	// Delete-then-create so at most one session survives even if the
	// create step fails.
	now := time.Now()
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&database.Session{UserID: user.ID}).Error; err != nil {
			return err
		}
		return tx.Model(&user).Updates(map[string]any{
			"is_logged_in": true,
			"last_login":   now,
		}).Error
	})
	if err != nil {
		logger.Error("login session replace failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	user.IsLoggedIn = true
	user.LastLogin = now

	tokenPair, err := h.authService.GenerateTokenPair(user.ID)
	if err != nil {
		logger.Error("generate token pair failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	logger.Info("user logged in", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Welcome back %s", user.Name),
		"accessToken":  tokenPair.AccessToken,
		"refreshToken": tokenPair.RefreshToken,
		"expiresIn":    int(h.authService.AccessTokenTTL().Seconds()),
		"user":         toUserResponse(user),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh reissues a token pair from a valid refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c)

	claims, err := h.authService.ValidateTokenOfType(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		logger.Info("refresh token rejected", slog.Any("error", err))
		Unauthorized(c)
		return
	}

	var user database.User
	if err := h.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		logger.Info("refresh user not found", slog.Any("error", err))
		Unauthorized(c)
		return
	}

	tokenPair, err := h.authService.GenerateTokenPair(user.ID)
	if err != nil {
		logger.Error("refresh generate token pair failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  tokenPair.AccessToken,
		"refreshToken": tokenPair.RefreshToken,
		"expiresIn":    int(h.authService.AccessTokenTTL().Seconds()),
	})
}

// Logout deletes all session rows for the user and clears the flag.
// Idempotent: succeeds even with no session.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.Uint64("user_id", uint64(userID)))

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&database.Session{}).Error; err != nil {
			return err
		}
		return tx.Model(&database.User{}).Where("id = ?", userID).
			Update("is_logged_in", false).Error
	})
	if err != nil {
		logger.Error("logout failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	logger.Info("user logged out")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// Profile returns the current user without the password hash.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var user database.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		h.loggerFromContext(c).Error("profile lookup failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type contactRequest struct {
	Name    string `json:"name" binding:"required,max=128"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=4096"`
}

// Contact relays a contact-form message to the operator mailbox.
func (h *AuthHandler) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	logger := h.loggerFromContext(c)
	if err := h.contactRelay.RelayContactMessage(req.Name, req.Email, req.Message); err != nil {
		logger.Error("contact relay failed", slog.Any("error", err))
		Error(c, http.StatusBadGateway, "failed to send message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent. We'll get back to you soon."})
}

func (h *AuthHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
