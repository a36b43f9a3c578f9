package config

import (
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port int
	Host string
	Env  string // "development" or "production"

	// PublicBaseURL overrides the scheme+host used for absolute links
	// (og:image, share intents). Empty means derive it from the request.
	PublicBaseURL string

	// Image composer
	FontPath     string // optional regular font file (e.g. a CJK font)
	BoldFontPath string // optional bold font file
	TimeZone     string // zone used for the date printed on cards

	// Logging
	LogLevel string
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton)
func Get() *Config {
	once.Do(func() {
		cfg = load()
	})
	return cfg
}

// load reads configuration from environment variables
func load() *Config {
	return &Config{
		// Server
		Port: getEnvInt("PORT", 3000),
		Host: getEnv("HOST", "0.0.0.0"),
		Env:  getEnv("ENV", "development"),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		// Composer
		FontPath:     getEnv("OG_FONT_PATH", ""),
		BoldFontPath: getEnv("OG_BOLD_FONT_PATH", ""),
		TimeZone:     getEnv("OG_TIMEZONE", "Asia/Tokyo"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
