// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// EmailConfig provides settings for the SMTP mail transport.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// NotificationConfig provides settings for the notification fan-out.
type NotificationConfig interface {
	GetAdminNotifyAddress() string
	GetChannelTimeout() time.Duration
}

// LeadServiceConfig provides settings for the secondary lead service.
type LeadServiceConfig interface {
	GetLeadServiceURL() string
	GetLeadServiceAPIKey() string
	IsLeadServiceEnabled() bool
}

// SyncConfig provides settings for the CRM sync queue and worker.
type SyncConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetSyncQueueName() string
	GetSyncConcurrency() int
	GetCRMWebhookURL() string
	GetCRMWebhookSecret() string
	IsCRMSyncEnabled() bool
}

// ArchiveConfig provides settings for the submission archive (object storage).
type ArchiveConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetArchiveBucket() string
	IsArchiveEnabled() bool
}

// AdminConfig provides the static key guarding admin endpoints.
type AdminConfig interface {
	GetAdminAPIKey() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	CORSAllowAll     bool
	CORSOrigins      []string
	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	AdminNotifyAddr  string
	ChannelTimeout   time.Duration
	LeadServiceURL   string
	LeadServiceKey   string
	RedisURL         string
	RedisTLSInsecure bool
	SyncQueueName    string
	SyncConcurrency  int
	CRMWebhookURL    string
	CRMWebhookSecret string
	MinIOEndpoint    string
	MinIOAccessKey   string
	MinIOSecretKey   string
	MinIOUseSSL      bool
	ArchiveBucket    string
	AdminAPIKey      string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// NotificationConfig implementation
func (c *Config) GetAdminNotifyAddress() string    { return c.AdminNotifyAddr }
func (c *Config) GetChannelTimeout() time.Duration { return c.ChannelTimeout }

// LeadServiceConfig implementation
func (c *Config) GetLeadServiceURL() string    { return c.LeadServiceURL }
func (c *Config) GetLeadServiceAPIKey() string { return c.LeadServiceKey }
func (c *Config) IsLeadServiceEnabled() bool   { return c.LeadServiceURL != "" }

// SyncConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool  { return c.RedisTLSInsecure }
func (c *Config) GetSyncQueueName() string   { return c.SyncQueueName }
func (c *Config) GetSyncConcurrency() int    { return c.SyncConcurrency }
func (c *Config) GetCRMWebhookURL() string   { return c.CRMWebhookURL }
func (c *Config) GetCRMWebhookSecret() string { return c.CRMWebhookSecret }
func (c *Config) IsCRMSyncEnabled() bool {
	return c.RedisURL != "" && c.CRMWebhookURL != ""
}

// ArchiveConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetArchiveBucket() string  { return c.ArchiveBucket }
func (c *Config) IsArchiveEnabled() bool    { return c.MinIOEndpoint != "" }

// AdminConfig implementation
func (c *Config) GetAdminAPIKey() string { return c.AdminAPIKey }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		EmailEnabled:     emailEnabled && smtpHost != "",
		SMTPHost:         smtpHost,
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Leads"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		AdminNotifyAddr:  getEnv("ADMIN_NOTIFY_ADDRESS", ""),
		ChannelTimeout:   mustDuration(getEnv("NOTIFY_CHANNEL_TIMEOUT", "10s")),
		LeadServiceURL:   getEnv("LEAD_SERVICE_URL", ""),
		LeadServiceKey:   getEnv("LEAD_SERVICE_API_KEY", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		SyncQueueName:    getEnv("SYNC_QUEUE_NAME", "default"),
		SyncConcurrency:  mustInt(getEnv("SYNC_CONCURRENCY", "10")),
		CRMWebhookURL:    getEnv("CRM_WEBHOOK_URL", ""),
		CRMWebhookSecret: getEnv("CRM_WEBHOOK_SECRET", ""),
		MinIOEndpoint:    getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:   getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:   getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:      strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		ArchiveBucket:    getEnv("MINIO_BUCKET_SUBMISSION_ARCHIVE", "submission-archive"),
		AdminAPIKey:      getEnv("ADMIN_API_KEY", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.EmailEnabled && cfg.AdminNotifyAddr == "" {
		return nil, fmt.Errorf("ADMIN_NOTIFY_ADDRESS is required when email is enabled")
	}
	if cfg.ChannelTimeout <= 0 {
		return nil, fmt.Errorf("NOTIFY_CHANNEL_TIMEOUT must be a positive duration")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
