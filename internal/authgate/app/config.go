package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Identity token verification. One of IdentityHMACSecret or
	// IdentityPublicKeyFile must be set.
	IdentityIssuer        string // Optional: required iss claim
	IdentityAudience      string // Optional: required aud claim
	IdentityHMACSecret    string // Shared secret for HS256 tokens
	IdentityPublicKeyFile string // Path to PEM public key for RS256/EdDSA tokens
	IdentityLeeway        time.Duration

	// Session cookie.
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration

	// Emailed passcode challenge.
	OTPCooldown time.Duration
	OTPCodeTTL  time.Duration

	// Authenticator-app factor.
	TOTPIssuer  string
	SealKeyFile string // Path to key material for sealing authenticator seeds

	// Outgoing mail. When SMTPHost is empty in a dev environment, passcodes
	// are logged instead of sent.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	DatabaseFile         string
	Env                  string // Environment (dev, staging, prod) (default: dev)
	LogLevel             string // Log level (debug, info, warn, error) (default: info)
	LogFormat            string // Log format (json, text) (default: json)
	Port                 int
	ShutdownGracePeriod  time.Duration
	HousekeepingInterval time.Duration
}

func LoadConfig() Config {
	return Config{
		IdentityIssuer:        os.Getenv("AUTHGATE_IDENTITY_ISSUER"),
		IdentityAudience:      os.Getenv("AUTHGATE_IDENTITY_AUDIENCE"),
		IdentityHMACSecret:    os.Getenv("AUTHGATE_IDENTITY_HMAC_SECRET"),
		IdentityPublicKeyFile: os.Getenv("AUTHGATE_IDENTITY_PUBLIC_KEY_FILE"),
		IdentityLeeway:        getEnvDurationOrDefault("AUTHGATE_IDENTITY_LEEWAY", 30*time.Second),

		CookieName:   getEnvOrDefault("AUTHGATE_COOKIE_NAME", "authgate_session"),
		CookieSecure: getEnvBoolOrDefault("AUTHGATE_COOKIE_SECURE", false),
		SessionTTL:   getEnvDurationOrDefault("AUTHGATE_SESSION_TTL", time.Hour),

		OTPCooldown: getEnvDurationOrDefault("AUTHGATE_OTP_COOLDOWN", 60*time.Second),
		OTPCodeTTL:  getEnvDurationOrDefault("AUTHGATE_OTP_TTL", 10*time.Minute),

		TOTPIssuer:  getEnvOrDefault("AUTHGATE_TOTP_ISSUER", "AuthGate"),
		SealKeyFile: getEnvOrDefault("AUTHGATE_SEAL_KEY_FILE", "seal.key"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		DatabaseFile:         getEnvOrDefault("AUTHGATE_DATABASE_FILE", "authgate.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 5*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
