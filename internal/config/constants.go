package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// Database readiness: one ping attempt is capped, attempts are spaced by a fixed interval.
const (
	DBConnectTimeout    = 10 * time.Second
	DBConnectAttempts   = 15
	DBConnectInterval   = 1 * time.Second
	DBHealthCheckPeriod = 30 * time.Second
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 60 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Upload admission. The multipart ceiling sits above the file limit so an
// oversize resume is reported by the upload gate rather than cut off early.
const (
	MaxUploadBytes        = 5 * 1024 * 1024
	MaxMultipartBodyBytes = 2 * MaxUploadBytes
	MaxJSONBodyBytes      = 1 << 20
	DefaultUploadDir      = "uploads"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// Notification delivery
const (
	MailSendTimeout  = 30 * time.Second
	MailQueueKey     = "notifications:email"
	MailQueueBlockOn = 5 * time.Second
)
