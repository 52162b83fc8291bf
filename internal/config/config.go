package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	OTPTTL            time.Duration
	SMTPHost          string
	SMTPPort          string
	SMTPUser          string
	SMTPPass          string
	MailSender        string
	AdminEmail        string
	RazorpayKeyID     string
	RazorpayKeySecret string
	UploadDir         string
}

var AppEnv Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] no .env file found, relying on environment")
	}

	AppEnv = Config{
		DatabaseURL:       getEnvOrDefault("DATABASE_URL", "kashit.db"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", "dev-secret-change-me"),
		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 24*time.Hour),
		OTPTTL:            getDurationEnv("OTP_TTL", 10*time.Minute),
		SMTPHost:          getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		MailSender:        getEnvOrDefault("MAIL_SENDER", "kashit.kashmir@gmail.com"),
		AdminEmail:        getEnvOrDefault("ADMIN_EMAIL", "admin@kashit.com"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		UploadDir:         getEnvOrDefault("UPLOAD_DIR", "uploads"),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("[CONFIG] invalid duration for %s: %v, using default", key, err)
		return fallback
	}
	return parsed
}
