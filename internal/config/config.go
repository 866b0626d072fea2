package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is built once in main and
// passed by reference into every component that needs it; nothing else reads
// the process environment.
type Config struct {
	ServerPort int
	BaseURL    string // Public base URL used in verification links

	DatabasePath string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// SMTP settings for the transactional mailer. Mail is disabled when
	// host or credentials are empty.
	SMTPHost    string
	SMTPUser    string
	SMTPPass    string
	MailAddress string // From address, e.g. "Contact Book <no-reply@example.com>"

	AvatarDir string // Where resized avatars are served from
	TempDir   string // Upload staging area
}

// Load reads configuration from environment variables or sets defaults.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	costStr := getEnv("BCRYPT_COST", "10")
	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST %q: %w", costStr, err)
	}

	ttlStr := getEnv("TOKEN_TTL", "1h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", ttlStr, err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:   port,
		BaseURL:      getEnv("BASE_URL", fmt.Sprintf("http://localhost:%d", port)),
		DatabasePath: getEnv("DATABASE_PATH", "./contactbook.db"),
		JWTSecret:    secret,
		TokenTTL:     ttl,
		BcryptCost:   cost,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		MailAddress:  getEnv("MAIL_ADDRESS", "no-reply@localhost"),
		AvatarDir:    getEnv("AVATAR_DIR", "./public/avatars"),
		TempDir:      getEnv("TEMP_DIR", "./tmp"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
