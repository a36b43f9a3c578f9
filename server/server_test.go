package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaoyuanzhu-com/yaruze/api"
	"github.com/xiaoyuanzhu-com/yaruze/config"
	"github.com/xiaoyuanzhu-com/yaruze/server"
)

func newTestServer(t *testing.T, env string) *server.Server {
	t.Helper()
	srv, err := server.New(&server.Config{
		Host:     "127.0.0.1",
		Port:     0,
		Env:      env,
		TimeZone: "Asia/Tokyo",
	})
	require.NoError(t, err)
	api.SetupRoutes(srv.Router(), api.NewHandlers(srv))
	return srv
}

func request(srv *server.Server, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestNew_InvalidTimeZone(t *testing.T) {
	_, err := server.New(&server.Config{Env: "development", TimeZone: "Mars/Olympus_Mons"})
	assert.Error(t, err)
}

func TestNew_MissingFont(t *testing.T) {
	_, err := server.New(&server.Config{Env: "development", FontPath: "/nonexistent/font.otf"})
	assert.Error(t, err)
}

func TestRouter_GzipSkipsImages(t *testing.T) {
	srv := newTestServer(t, "development")
	gz := map[string]string{"Accept-Encoding": "gzip"}

	page := request(srv, "/", gz)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Equal(t, "gzip", page.Header().Get("Content-Encoding"))

	img := request(srv, "/api/og?title=Learn+Rust", gz)
	require.Equal(t, http.StatusOK, img.Code)
	assert.Empty(t, img.Header().Get("Content-Encoding"))
	assert.Equal(t, "image/png", img.Header().Get("Content-Type"))
}

func TestRouter_RequestID(t *testing.T) {
	srv := newTestServer(t, "development")

	generated := request(srv, "/healthz", nil)
	assert.Len(t, generated.Header().Get("X-Request-Id"), 36)

	forwarded := request(srv, "/healthz", map[string]string{"X-Request-Id": "abc-123"})
	assert.Equal(t, "abc-123", forwarded.Header().Get("X-Request-Id"))
}

func TestRouter_DevelopmentCORS(t *testing.T) {
	srv := newTestServer(t, "development")

	w := request(srv, "/api/links?title=x", map[string]string{"Origin": "http://localhost:3000"})

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRouter_ProductionHeadersAndScheme(t *testing.T) {
	srv := newTestServer(t, "production")

	w := request(srv, "/api/links?title=x", nil)

	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Body.String(), `"shareUrl":"https://example.com/share?title=x"`)
}

func TestFromAppConfig(t *testing.T) {
	c := server.FromAppConfig(&config.Config{
		Port:          8080,
		Host:          "localhost",
		Env:           "production",
		PublicBaseURL: "https://yaruze.example",
		TimeZone:      "UTC",
	})

	assert.Equal(t, "localhost:8080", c.Addr())
	assert.False(t, c.IsDevelopment())
	assert.Equal(t, "https://yaruze.example", c.PublicBaseURL)

	ogCfg, err := c.ToOGConfig()
	require.NoError(t, err)
	assert.Equal(t, "UTC", ogCfg.Location.String())
}

func TestServer_ShutdownStopsStart(t *testing.T) {
	srv := newTestServer(t, "development")

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
