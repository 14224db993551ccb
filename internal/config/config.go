package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	LogLevel string

	FactaURL      string
	FactaLogin    string
	FactaPassword string
	FactaTimeout  time.Duration
	UserAgent     string

	TokenTTL            time.Duration
	TokenWarmupSchedule string

	APIUser         string
	APIPasswordHash string

	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
	ReportEmailTo string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	timeout, err := getDuration("FACTA_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := getDuration("TOKEN_TTL", 50*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                getEnv("PORT", "4570"),
		LogLevel:            getEnv("LOG_LEVEL", "INFO"),
		FactaURL:            getEnv("FACTA_URL", "https://webservice.facta.com.br"),
		FactaLogin:          getEnv("FACTA_LOGIN", ""),
		FactaPassword:       getEnv("FACTA_PASSWORD", ""),
		FactaTimeout:        timeout,
		UserAgent:           getEnv("FACTA_USER_AGENT", "RoboMaffezzolli/1.0"),
		TokenTTL:            ttl,
		TokenWarmupSchedule: getEnv("TOKEN_WARMUP_SCHEDULE", "@every 45m"),
		APIUser:             getEnv("API_USER", "admin"),
		APIPasswordHash:     getEnv("API_PASSWORD_HASH", ""),
		SMTPHost:            getEnv("SMTP_HOST", "localhost"),
		SMTPPort:            getEnv("SMTP_PORT", "587"),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		SenderEmail:         getEnv("SENDER_EMAIL", "simulador@localhost"),
		ReportEmailTo:       getEnv("REPORT_EMAIL_TO", ""),
	}

	if cfg.FactaURL == "" {
		return nil, fmt.Errorf("FACTA_URL is required")
	}
	if cfg.FactaLogin == "" {
		return nil, fmt.Errorf("FACTA_LOGIN is required")
	}
	if cfg.FactaPassword == "" {
		return nil, fmt.Errorf("FACTA_PASSWORD is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
