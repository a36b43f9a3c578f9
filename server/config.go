package server

import (
	"fmt"
	"time"
	_ "time/tzdata" // OG_TIMEZONE must resolve in minimal containers

	"github.com/xiaoyuanzhu-com/yaruze/config"
	"github.com/xiaoyuanzhu-com/yaruze/og"
)

// Config holds server configuration
type Config struct {
	// Server infrastructure (immutable, requires restart)
	Port int
	Host string
	Env  string // "development" or "production"

	// PublicBaseURL is the scheme+host used for absolute links.
	// Empty means derive it from each request.
	PublicBaseURL string

	// Composer settings
	FontPath     string
	BoldFontPath string
	TimeZone     string
}

// FromAppConfig converts the environment configuration.
func FromAppConfig(c *config.Config) *Config {
	return &Config{
		Port:          c.Port,
		Host:          c.Host,
		Env:           c.Env,
		PublicBaseURL: c.PublicBaseURL,
		FontPath:      c.FontPath,
		BoldFontPath:  c.BoldFontPath,
		TimeZone:      c.TimeZone,
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ToOGConfig converts server config to image composer config
func (c *Config) ToOGConfig() (og.Config, error) {
	loc := time.UTC
	if c.TimeZone != "" {
		l, err := time.LoadLocation(c.TimeZone)
		if err != nil {
			return og.Config{}, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
		}
		loc = l
	}
	return og.Config{
		FontPath:     c.FontPath,
		BoldFontPath: c.BoldFontPath,
		Location:     loc,
	}, nil
}
