package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// Resend transactional email API.
	ResendAPIKey string
	ResendFrom   string

	// WhatsApp messaging webhook.
	WhatsAppAPIURL string
	WhatsAppBearer string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	CodeTTL         time.Duration // verification code validity window
	SessionLifetime time.Duration // hard session cap, also the inactivity window

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Sessions      string
	Verifications string
	Scoreboards   string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "verifications"),
			Scoreboards:   getEnv("DYNAMO_TABLE_SCOREBOARDS", "scoreboards"),
		},

		ResendAPIKey: getEnv("AUTH_RESEND_KEY", ""),
		ResendFrom:   getEnv("RESEND_FROM", "Scoreboard <scoreboard@theom.app>"),

		WhatsAppAPIURL: getEnv("WHATSAPP_API_URL", ""),
		WhatsAppBearer: getEnv("WHATSAPP_BEARER", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,

		CodeTTL:         time.Duration(getEnvInt("CODE_TTL_MINUTES", 15)) * time.Minute,
		SessionLifetime: time.Duration(getEnvInt("SESSION_LIFETIME_DAYS", 60)) * 24 * time.Hour,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Validate checks startup-time invariants. A missing delivery credential is a
// misconfiguration of the deployment, not a per-request error.
func (c *Config) Validate() error {
	if c.ResendAPIKey == "" {
		return fmt.Errorf("AUTH_RESEND_KEY is required")
	}
	if c.WhatsAppAPIURL == "" || c.WhatsAppBearer == "" {
		return fmt.Errorf("WHATSAPP_API_URL and WHATSAPP_BEARER are required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
