// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// Racing API feed.
	APIBaseURL string
	APIKey     string
	Regions    []string

	// Enrichment pacing: minimum interval between profile lookups.
	EnrichInterval time.Duration
	// ReenrichFailed makes the classifier re-queue horses whose profile
	// lookup failed in an earlier cycle. Off by default: once a minimal
	// row exists the horse is no longer "new" and is never retried.
	ReenrichFailed bool

	// ProtectedFields lists table.column pairs that, once non-null, are
	// never overwritten by a null from a later upsert.
	ProtectedFields []string

	// JWT signing secret (query API only).
	JWTSecret string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// MySQL – used only by cmd/migrate.
	MySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "padraic")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "rpdata")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("API_BASE_URL", "https://api.theracingapi.com/v1")
	v.SetDefault("REGIONS", "gb,ire")
	v.SetDefault("ENRICH_INTERVAL_MS", 500)
	v.SetDefault("REENRICH_FAILED", false)
	v.SetDefault("PROTECTED_FIELDS", "courses.latitude,courses.longitude")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "mmrace.app,www.mmrace.app")
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DBUser:          v.GetString("DB_USER"),
		DBPass:          v.GetString("DB_PASS"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBName:          v.GetString("DB_NAME"),
		DBSSLMode:       v.GetString("DB_SSLMODE"),
		APIBaseURL:      v.GetString("API_BASE_URL"),
		APIKey:          v.GetString("API_KEY"),
		Regions:         splitTrimmed(v.GetString("REGIONS")),
		EnrichInterval:  time.Duration(v.GetInt("ENRICH_INTERVAL_MS")) * time.Millisecond,
		ReenrichFailed:  v.GetBool("REENRICH_FAILED"),
		ProtectedFields: splitTrimmed(v.GetString("PROTECTED_FIELDS")),
		JWTSecret:       v.GetString("JWT_SECRET"),
		Debug:           v.GetBool("DEBUG"),
		Port:            v.GetString("PORT"),
		TLSDomains:      splitTrimmed(v.GetString("TLS_DOMAINS")),
		MySQLDSN:        v.GetString("MYSQL_DSN"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.EnrichInterval <= 0 {
		log.Fatal("config: ENRICH_INTERVAL_MS must be positive")
	}
}

// ValidateAPI aborts unless feed credentials are present. Called only by
// binaries that talk to the racing API; the rollup job doesn't need them.
func (c *Config) ValidateAPI() {
	if c.APIKey == "" {
		log.Fatal("config: API_KEY must be set")
	}
}

// ValidateJWT aborts unless the API signing secret is present.
func (c *Config) ValidateJWT() {
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
