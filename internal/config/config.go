package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Storage  StorageConfig  `mapstructure:"storage"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Wizard   WizardConfig   `mapstructure:"wizard"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	PublicBaseURL  string   `mapstructure:"public_base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
}

// StorageConfig selects the blob backend used for thumbnails, profile
// images and generated PDFs. "minio" keeps objects in the configured
// bucket, "filesystem" keeps them in a local uploads directory.
type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	UploadsDir string `mapstructure:"uploads_dir"`
}

// JWTConfig contains RSA key locations and token lifetimes.
type JWTConfig struct {
	PrivateKeyPath  string        `mapstructure:"private_key_path"`
	PublicKeyPath   string        `mapstructure:"public_key_path"`
	AccessTTL       time.Duration `mapstructure:"access_ttl"`
	RefreshTTL      time.Duration `mapstructure:"refresh_ttl"`
	VerificationTTL time.Duration `mapstructure:"verification_ttl"`
}

// AuthConfig contains registration and login policy.
type AuthConfig struct {
	MinPasswordLength int `mapstructure:"min_password_length"`
	// BlockOnVerificationEmail makes registration fail when the
	// verification email cannot be handed off. When false the email is
	// dispatched to the worker queue and registration succeeds
	// regardless of transport outcome.
	BlockOnVerificationEmail bool `mapstructure:"block_on_verification_email"`
	LoginRateLimitPerHour    int  `mapstructure:"login_rate_limit_per_hour"`
}

// SMTPConfig contains outbound email settings.
type SMTPConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	From            string `mapstructure:"from"`
	OperatorMailbox string `mapstructure:"operator_mailbox"`
}

// UploadConfig constrains resume image uploads.
type UploadConfig struct {
	MaxBytes      int64    `mapstructure:"max_bytes"`
	MIMEWhitelist []string `mapstructure:"mime_whitelist"`
	ClamdAddr     string   `mapstructure:"clamd_addr"`
}

// WizardConfig resolves validation ambiguities that differ between
// deployed variants of the editor.
type WizardConfig struct {
	// PhoneRule is "10digit" (exactly ten digits) or "international"
	// (+<country code>-<6 to 14 digits>).
	PhoneRule string `mapstructure:"phone_rule"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr returns the host:port address of the Redis server.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.public_base_url", "http://localhost:8080")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "resumebuilder")
	v.SetDefault("database.user", "resumebuilder")
	v.SetDefault("database.password", "resumebuilder")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("storage.backend", "minio")
	v.SetDefault("storage.uploads_dir", "uploads")
	v.SetDefault("jwt.private_key_path", "keys/jwt_private.pem")
	v.SetDefault("jwt.public_key_path", "keys/jwt_public.pem")
	v.SetDefault("jwt.access_ttl", 240*time.Hour)
	v.SetDefault("jwt.refresh_ttl", 720*time.Hour)
	v.SetDefault("jwt.verification_ttl", 168*time.Hour)
	v.SetDefault("auth.min_password_length", 8)
	v.SetDefault("auth.block_on_verification_email", false)
	v.SetDefault("auth.login_rate_limit_per_hour", 10)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("upload.max_bytes", 5*1024*1024)
	v.SetDefault("upload.mime_whitelist", []string{"image/png", "image/jpeg", "image/webp"})
	v.SetDefault("wizard.phone_rule", "10digit")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                         "API_PORT",
		"api.public_base_url":              "API_PUBLIC_BASE_URL",
		"api.allowed_origins":              "API_ALLOWED_ORIGINS",
		"database.host":                    "DATABASE_HOST",
		"database.port":                    "DATABASE_PORT",
		"database.name":                    "POSTGRES_DB",
		"database.user":                    "POSTGRES_USER",
		"database.password":                "POSTGRES_PASSWORD",
		"database.sslmode":                 "DATABASE_SSLMODE",
		"redis.host":                       "REDIS_HOST",
		"redis.port":                       "REDIS_PORT",
		"minio.endpoint":                   "MINIO_ENDPOINT",
		"minio.access_key_id":              "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":          "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                    "MINIO_USE_SSL",
		"minio.bucket":                     "MINIO_BUCKET",
		"storage.backend":                  "STORAGE_BACKEND",
		"storage.uploads_dir":              "STORAGE_UPLOADS_DIR",
		"jwt.private_key_path":             "JWT_PRIVATE_KEY_PATH",
		"jwt.public_key_path":              "JWT_PUBLIC_KEY_PATH",
		"jwt.access_ttl":                   "JWT_ACCESS_TTL",
		"jwt.refresh_ttl":                  "JWT_REFRESH_TTL",
		"jwt.verification_ttl":             "JWT_VERIFICATION_TTL",
		"auth.min_password_length":         "AUTH_MIN_PASSWORD_LENGTH",
		"auth.block_on_verification_email": "AUTH_BLOCK_ON_VERIFICATION_EMAIL",
		"auth.login_rate_limit_per_hour":   "AUTH_LOGIN_RATE_LIMIT_PER_HOUR",
		"smtp.host":                        "SMTP_HOST",
		"smtp.port":                        "SMTP_PORT",
		"smtp.user":                        "SMTP_USER",
		"smtp.password":                    "SMTP_PASSWORD",
		"smtp.from":                        "SMTP_FROM",
		"smtp.operator_mailbox":            "SMTP_OPERATOR_MAILBOX",
		"upload.max_bytes":                 "UPLOAD_MAX_BYTES",
		"upload.mime_whitelist":            "UPLOAD_MIME_WHITELIST",
		"upload.clamd_addr":                "CLAMD_ADDR",
		"wizard.phone_rule":                "WIZARD_PHONE_RULE",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Backend)) {
	case "minio":
		if cfg.MinIO.Endpoint == "" {
			return errors.New("minio endpoint is required")
		}
		if cfg.MinIO.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if cfg.MinIO.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("minio bucket is required")
		}
	case "filesystem":
		if cfg.Storage.UploadsDir == "" {
			return errors.New("storage uploads dir is required")
		}
	default:
		return fmt.Errorf("invalid storage backend %q", cfg.Storage.Backend)
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 || cfg.JWT.VerificationTTL <= 0 {
		return errors.New("jwt token lifetimes must be positive")
	}
	if cfg.Auth.MinPasswordLength <= 0 {
		return errors.New("auth min password length must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Wizard.PhoneRule)) {
	case "10digit", "international":
	default:
		return fmt.Errorf("invalid wizard phone rule %q", cfg.Wizard.PhoneRule)
	}
	return nil
}
