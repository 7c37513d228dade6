package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	// BaseURL is the externally reachable origin, used to build public
	// attachment URLs.
	BaseURL string

	// RedisAddr is optional; when empty an in-process event bus is used.
	RedisAddr string

	// NatsURL is optional; when empty attachments are kept in memory,
	// which only makes sense for development.
	NatsURL    string
	NatsBucket string

	WebhookURL    string
	WebhookSecret string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		BaseURL:       os.Getenv("BASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		NatsURL:       os.Getenv("NATS_URL"),
		NatsBucket:    os.Getenv("NATS_BUCKET"),
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.ServerPort
	}
	if cfg.NatsBucket == "" {
		cfg.NatsBucket = "attachments"
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = "no-reply@inoflow.local"
	}

	cfg.SMTPPort = 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.SMTPPort = p
		}
	}

	return cfg
}
