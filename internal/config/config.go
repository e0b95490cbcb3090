package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	Port          string
	DBConn        string
	LogLevel      string
	RedisAddr     string
	AuditSchedule string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
	AlertEmail    string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBConn:        getEnv("DB_CONN", "host=localhost port=5432 user=bank password=bank dbname=bank sslmode=disable"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		AuditSchedule: getEnv("AUDIT_SCHEDULE", "@daily"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", ""),
		AlertEmail:    getEnv("ALERT_EMAIL", ""),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.AlertEmail != "" {
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST is required when ALERT_EMAIL is set")
		}
		if cfg.SenderEmail == "" {
			return nil, fmt.Errorf("SENDER_EMAIL is required when ALERT_EMAIL is set")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
