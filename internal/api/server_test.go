package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campus-events-api/internal/config"
	"github.com/vietanh2810/campus-events-api/internal/pkg/media"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		API: &config.APIConfig{
			Environment:   "test",
			Port:          "8080",
			JWTSigningKey: "server-test-key",
			JWTTTL:        time.Hour,
			Timezone:      "UTC",
		},
		Gin:      &config.GinConfig{Mode: gin.TestMode},
		Database: &config.DatabaseConfig{Driver: config.DriverPostgres},
		Storage:  &config.StorageConfig{MaxUploadSize: 1 << 20},
		Admin:    &config.AdminConfig{},
		Log:      &config.LogConfig{Level: "info"},
	}
}

// The requests below never reach a store, so the DAOs stay nil.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	s, err := NewServer(testConfig(), Store{}, media.DisabledHost{})
	require.NoError(t, err)
	return s
}

func TestNewServer_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health", http.MethodGet, "/", http.StatusOK},
		{"swagger", http.MethodGet, "/swagger/index.html", http.StatusOK},
		{"profile needs a token", http.MethodGet, "/api/v1/users/me", http.StatusUnauthorized},
		{"faculty routes need a token", http.MethodGet, "/api/v1/faculty/events", http.StatusUnauthorized},
		{"admin routes need a token", http.MethodPost, "/api/v1/admin/faculty", http.StatusUnauthorized},
		{"club creation needs a token", http.MethodPost, "/api/v1/clubs", http.StatusUnauthorized},
		{"student feedback needs a token", http.MethodPost, "/api/v1/student/events/x/reviews", http.StatusUnauthorized},
		{"public event rejects bad ids", http.MethodGet, "/api/v1/events/not-a-uuid", http.StatusBadRequest},
		{"public club rejects bad ids", http.MethodGet, "/api/v1/clubs/not-a-uuid", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v2/events", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestNewServer_Metrics(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `campus_events_http_requests_total{method="GET",route="/",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewServer_BadTimezone(t *testing.T) {
	conf := testConfig()
	conf.API.Timezone = "Mars/Olympus_Mons"

	_, err := NewServer(conf, Store{}, media.DisabledHost{})

	assert.Error(t, err)
}

func TestBootstrapAdmin_Disabled(t *testing.T) {
	s := newTestServer(t)

	assert.NoError(t, s.BootstrapAdmin(context.Background()))
}
