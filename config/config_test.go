package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "HOST", "ENV", "PUBLIC_BASE_URL", "OG_FONT_PATH", "OG_BOLD_FONT_PATH", "OG_TIMEZONE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	c := load()

	if c.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", c.Port)
	}
	if c.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %q", c.Host)
	}
	if !c.IsDevelopment() {
		t.Error("expected development mode by default")
	}
	if c.TimeZone != "Asia/Tokyo" {
		t.Errorf("expected Asia/Tokyo, got %q", c.TimeZone)
	}
	if c.PublicBaseURL != "" {
		t.Errorf("expected empty base url, got %q", c.PublicBaseURL)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("PUBLIC_BASE_URL", "https://yaruze.example.com")
	t.Setenv("OG_FONT_PATH", "/fonts/NotoSansJP-Regular.ttf")

	c := load()

	if c.Port != 8080 {
		t.Errorf("expected port 8080, got %d", c.Port)
	}
	if c.IsDevelopment() {
		t.Error("expected production mode")
	}
	if c.PublicBaseURL != "https://yaruze.example.com" {
		t.Errorf("unexpected base url %q", c.PublicBaseURL)
	}
	if c.FontPath != "/fonts/NotoSansJP-Regular.ttf" {
		t.Errorf("unexpected font path %q", c.FontPath)
	}
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	if c := load(); c.Port != 3000 {
		t.Errorf("expected fallback port 3000, got %d", c.Port)
	}
}
