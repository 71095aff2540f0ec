package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/campus-events-api/internal/service"
)

const (
	signingKey = "middleware-test-key"
	userAgent  = "middleware-test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUserFinder struct {
	mock.Mock
}

func (m *mockUserFinder) GetUser(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func newRouter(users UserFinder, roles ...domain.Role) *gin.Engine {
	r := gin.New()
	r.GET("/protected",
		NewAuthenticator(signingKey).VerifyJWT(),
		RequireRole(users, roles...),
		func(ctx *gin.Context) {
			user, ok := CurrentUser(ctx)
			if !ok {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.String(http.StatusOK, user.ID)
		})
	return r
}

func doRequest(r http.Handler, token, ua string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("User-Agent", ua)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()

	token, err := jwthelper.GenerateToken([]byte(signingKey), userID, "student", userAgent, time.Hour)
	require.NoError(t, err)
	return token
}

func TestVerifyJWTAndRequireRole(t *testing.T) {
	student := domain.User{ID: "u-student", Role: domain.RoleStudent}
	faculty := domain.User{ID: "u-faculty", Role: domain.RoleFaculty}

	tests := []struct {
		name     string
		token    string
		ua       string
		setup    func(m *mockUserFinder)
		wantCode int
		wantBody string
	}{
		{
			name:     "missing token",
			ua:       userAgent,
			setup:    func(m *mockUserFinder) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "garbage token",
			token:    "garbage",
			ua:       userAgent,
			setup:    func(m *mockUserFinder) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "different user agent",
			token:    tokenFor(t, student.ID),
			ua:       "curl/8.0",
			setup:    func(m *mockUserFinder) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:  "role allowed",
			token: tokenFor(t, student.ID),
			ua:    userAgent,
			setup: func(m *mockUserFinder) {
				m.On("GetUser", mock.Anything, student.ID).Return(student, nil)
			},
			wantCode: http.StatusOK,
			wantBody: student.ID,
		},
		{
			name:  "role read from storage",
			token: tokenFor(t, faculty.ID),
			ua:    userAgent,
			setup: func(m *mockUserFinder) {
				m.On("GetUser", mock.Anything, faculty.ID).Return(faculty, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:  "deleted account",
			token: tokenFor(t, "u-gone"),
			ua:    userAgent,
			setup: func(m *mockUserFinder) {
				m.On("GetUser", mock.Anything, "u-gone").Return(domain.User{}, service.ErrUserNotFound)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:  "lookup failure",
			token: tokenFor(t, student.ID),
			ua:    userAgent,
			setup: func(m *mockUserFinder) {
				m.On("GetUser", mock.Anything, student.ID).Return(domain.User{}, errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserFinder{}
			tt.setup(users)

			rec := doRequest(newRouter(users, domain.RoleStudent, domain.RoleCoordinator), tt.token, tt.ua)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			users.AssertExpectations(t)
		})
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/events/:eventID", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	for _, path := range []string{"/events/1", "/events/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/events/:eventID", "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.latency))
}
