package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding config file values.
const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvJWTSecret    = "JWT_SECRET"
	EnvJWTExpiry    = "JWT_EXPIRY"
	EnvUploadDir    = "UPLOAD_DIR"
	EnvAIAPIKey     = "AI_API_KEY"
	EnvRedisAddr    = "REDIS_ADDR"
)

// defaultJWTExpiry is used when the config omits or invalidates token expiry.
const defaultJWTExpiry = 24 * time.Hour

// defaultAITimeout bounds the external question generation call.
const defaultAITimeout = 30 * time.Second

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database.dsn` in config file or DB_CONNECTION)")

// ErrMissingJWTSecret indicates no JWT signing secret is configured.
var ErrMissingJWTSecret = errors.New("missing jwt secret (set `jwt.secret` in config file or JWT_SECRET)")

// JWTConfig holds JWT secret and expiry settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// AIConfig holds settings for the external question generation service.
type AIConfig struct {
	BaseURL string        `yaml:"base-url"`
	APIKey  string        `yaml:"api-key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// UploadConfig holds profile picture upload settings.
type UploadConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
}

// RateLimitConfig holds login rate limit settings.
type RateLimitConfig struct {
	LoginPerSecond int    `yaml:"login-per-second"`
	RedisAddr      string `yaml:"redis-addr"`
}

// AdminConfig holds the bootstrap administrator account settings.
type AdminConfig struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Config holds all resolved application configuration values.
type Config struct {
	DatabaseDSN string          `yaml:"-"`
	JWT         JWTConfig       `yaml:"jwt"`
	AI          AIConfig        `yaml:"ai"`
	Upload      UploadConfig    `yaml:"upload"`
	Logging     LoggingConfig   `yaml:"logging"`
	RateLimit   RateLimitConfig `yaml:"rate-limit"`
	Admin       AdminConfig     `yaml:"admin"`
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// fileConfig maps the YAML layout of the config file.
type fileConfig struct {
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	AI        AIConfig        `yaml:"ai"`
	Upload    UploadConfig    `yaml:"upload"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate-limit"`
	Admin     AdminConfig     `yaml:"admin"`
}

// Load reads the YAML config file and applies environment overrides.
// A missing file is not an error as long as the environment provides
// the database DSN and JWT secret.
func Load(configPath string) (Config, error) {
	var file fileConfig
	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &file); errUnmarshal != nil {
			return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	}

	cfg := Config{
		DatabaseDSN: strings.TrimSpace(file.Database.DSN),
		JWT:         file.JWT,
		AI:          file.AI,
		Upload:      file.Upload,
		Logging:     file.Logging,
		RateLimit:   file.RateLimit,
		Admin:       file.Admin,
	}

	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		cfg.JWT.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			cfg.JWT.Expiry = expiry
		}
	}
	if dir := strings.TrimSpace(os.Getenv(EnvUploadDir)); dir != "" {
		cfg.Upload.Dir = dir
	}
	if key := strings.TrimSpace(os.Getenv(EnvAIAPIKey)); key != "" {
		cfg.AI.APIKey = key
	}
	if addr := strings.TrimSpace(os.Getenv(EnvRedisAddr)); addr != "" {
		cfg.RateLimit.RedisAddr = addr
	}

	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = defaultJWTExpiry
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = defaultAITimeout
	}
	if strings.TrimSpace(cfg.Upload.Dir) == "" {
		cfg.Upload.Dir = "./uploads"
	}
	if cfg.RateLimit.LoginPerSecond <= 0 {
		cfg.RateLimit.LoginPerSecond = 5
	}

	if cfg.DatabaseDSN == "" {
		return Config{}, ErrMissingDatabaseDSN
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return Config{}, ErrMissingJWTSecret
	}
	return cfg, nil
}
