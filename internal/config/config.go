package config

import (
	"log/slog"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	LogDir      string
	// Identity provider
	ClerkAPIURL    string
	ClerkSecretKey string
	// ClerkJWKSURL is the public Frontend API key set,
	// https://<instance>.clerk.accounts.dev/.well-known/jwks.json. The Backend
	// API /jwks endpoint needs the secret key and cannot be used here.
	ClerkJWKSURL string
	// Membership lookup paging used by the admin gate
	MembershipPageLimit int
	MembershipMaxPages  int
	// Debug enables debug-level logging
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	apiURL := getEnv("CLERK_API_URL", "https://api.clerk.com/v1")

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         env,
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:         getTablePrefix(env),
		LogDir:              getEnv("LOG_DIR", ""),
		ClerkAPIURL:         apiURL,
		ClerkSecretKey:      getEnv("CLERK_SECRET_KEY", ""),
		ClerkJWKSURL:        getEnv("CLERK_JWKS_URL", ""),
		MembershipPageLimit: getEnvInt("MEMBERSHIP_PAGE_LIMIT", DefaultMembershipPageLimit),
		MembershipMaxPages:  getEnvInt("MEMBERSHIP_MAX_PAGES", DefaultMembershipMaxPages),
		Debug:               getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ClerkJWKSURL,
			validation.Required.Error("CLERK_JWKS_URL is required"),
			is.URL,
		),
		validation.Field(&c.DatabaseURL,
			validation.When(c.Environment == "prod", validation.Required.Error("DATABASE_URL is required in production")),
		),
	)
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer env var", "key", key, "value", value)
		return defaultValue
	}
	return n
}
