package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password", "jwt-secret",
}

type Config struct {
	Port              int    `env:"PORT" envDefault:"5000"`
	AppEnv            string `env:"APP_ENV" envDefault:"development"`
	DatabaseURL       string `env:"DATABASE_URL" envDefault:"postgres://localhost:5432/tics?sslmode=disable"`
	RedisURL          string `env:"REDIS_URL"`
	JWTSecret         string `env:"JWT_SECRET"`
	JWTExpire         string `env:"JWT_EXPIRE" envDefault:"7d"`
	AdminUsername     string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword     string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	EmailHost         string `env:"EMAIL_HOST"`
	EmailPort         int    `env:"EMAIL_PORT" envDefault:"587"`
	EmailUser         string `env:"EMAIL_USER"`
	EmailPass         string `env:"EMAIL_PASS"`
	EmailFrom         string `env:"EMAIL_FROM"`
	EmailTo           string `env:"EMAIL_TO"`
	FrontendURL       string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	UploadDir         string `env:"UPLOAD_DIR"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// TokenTTL parses JWT_EXPIRE. Day suffixes ("7d") are accepted alongside Go durations.
func (c *Config) TokenTTL() (time.Duration, error) {
	raw := strings.TrimSpace(c.JWTExpire)
	if raw == "" {
		return DefaultTokenTTL, nil
	}

	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid JWT_EXPIRE %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid JWT_EXPIRE %q", raw)
	}
	return d, nil
}

// MailFrom falls back to the SMTP user when EMAIL_FROM is unset.
func (c *Config) MailFrom() string {
	if c.EmailFrom != "" {
		return c.EmailFrom
	}
	return c.EmailUser
}

// MailTo is the admin inbox that receives notifications.
func (c *Config) MailTo() string {
	if c.EmailTo != "" {
		return c.EmailTo
	}
	return c.EmailUser
}

// UploadDirCandidates lists upload directories in preference order.
// An explicit UPLOAD_DIR always wins; production prefers ephemeral storage.
func (c *Config) UploadDirCandidates() []string {
	var dirs []string
	if c.UploadDir != "" {
		dirs = append(dirs, c.UploadDir)
	}
	if c.IsProduction() {
		dirs = append(dirs, filepath.Join(os.TempDir(), "uploads"))
	}
	dirs = append(dirs, DefaultUploadDir)
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(wd, DefaultUploadDir))
	}
	return dirs
}

func (c *Config) Validate(isProduction bool) error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required (generate with: openssl rand -base64 32)")
	}

	if _, err := c.TokenTTL(); err != nil {
		return err
	}

	if c.AdminPasswordHash != "" {
		if !strings.HasPrefix(c.AdminPasswordHash, "$2a$") &&
			!strings.HasPrefix(c.AdminPasswordHash, "$2b$") &&
			!strings.HasPrefix(c.AdminPasswordHash, "$2y$") {
			return fmt.Errorf("ADMIN_PASSWORD_HASH must be a bcrypt hash (generate with: go run scripts/hash-password.go <password>)")
		}
	}

	if isProduction {
		if err := validateSecret("JWT_SECRET", c.JWTSecret); err != nil {
			return err
		}

		if c.AdminPasswordHash == "" && c.AdminPassword == "admin123" {
			log.Warn().Msg("ADMIN_PASSWORD is the default in production: change it or set ADMIN_PASSWORD_HASH")
		}
		if c.EmailHost == "" {
			log.Warn().Msg("EMAIL_HOST is empty in production: notification emails are disabled")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to read .env file")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
