package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/campus-events-api/internal/api/middleware"
	"github.com/vietanh2810/campus-events-api/internal/domain"
)

const (
	testEventID   = "6f1c2a5e-0d7b-4c1e-9a51-3b3f0c8d9e01"
	testStudentID = "2b9e4f10-8a3c-4d6e-b1f2-7c5d9e0a1b23"
	testClubID    = "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := request.RegisterValidators(); err != nil {
		panic(err)
	}
}

// asUser puts user where RequireRole would have put it.
func asUser(user domain.User) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyCurrentUser, user)
		ctx.Next()
	}
}

func jsonBody(v any) io.Reader {
	if s, ok := v.(string); ok {
		return bytes.NewBufferString(s)
	}
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func serve(r http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type errBody struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func decodeErr(rec *httptest.ResponseRecorder) errBody {
	var body errBody
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) SignupStudent(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.User), args.Error(1)
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) CreateEvent(ctx context.Context, coordinator domain.User, event domain.Event) (domain.Event, error) {
	args := m.Called(ctx, coordinator, event)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) UpdateEvent(ctx context.Context, coordinatorID, eventID string, patch domain.EventPatch) (domain.Event, error) {
	args := m.Called(ctx, coordinatorID, eventID, patch)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) VerifyEvent(ctx context.Context, eventID string, status domain.EventStatus, patch domain.EventPatch) (domain.Event, error) {
	args := m.Called(ctx, eventID, status, patch)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) DeleteEvent(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

func (m *mockEventService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) GetPublicEvent(ctx context.Context, eventID string) (domain.Event, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventService) ListForStudent(ctx context.Context, studentID string) ([]domain.Event, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventService) MyEvents(ctx context.Context, studentID string) ([]domain.Event, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventService) Register(ctx context.Context, eventID, studentID string) (domain.Event, error) {
	args := m.Called(ctx, eventID, studentID)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) MarkAttendance(ctx context.Context, coordinatorID, eventID, studentID string, status domain.AttendanceStatus) (domain.Event, error) {
	args := m.Called(ctx, coordinatorID, eventID, studentID, status)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) Participants(ctx context.Context, coordinatorID, eventID string) ([]domain.EventParticipant, error) {
	args := m.Called(ctx, coordinatorID, eventID)
	return args.Get(0).([]domain.EventParticipant), args.Error(1)
}

type mockFeedbackService struct {
	mock.Mock
}

func (m *mockFeedbackService) SubmitAttendeeFeedback(ctx context.Context, eventID string, student domain.User, rating int, comment string) (domain.Feedback, error) {
	args := m.Called(ctx, eventID, student, rating, comment)
	return args.Get(0).(domain.Feedback), args.Error(1)
}

func (m *mockFeedbackService) EventFeedback(ctx context.Context, eventID string) ([]domain.Feedback, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

func (m *mockFeedbackService) StudentFeedback(ctx context.Context, studentID string) ([]domain.Feedback, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

type mockClubService struct {
	mock.Mock
}

func (m *mockClubService) CreateClub(ctx context.Context, faculty domain.User, club domain.Club) (domain.Club, error) {
	args := m.Called(ctx, faculty, club)
	return args.Get(0).(domain.Club), args.Error(1)
}

func (m *mockClubService) ListClubs(ctx context.Context) ([]domain.Club, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Club), args.Error(1)
}

func (m *mockClubService) GetClub(ctx context.Context, id string) (domain.Club, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Club), args.Error(1)
}

func (m *mockClubService) AssignCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error) {
	args := m.Called(ctx, clubID, userID)
	return args.Get(0).(domain.Club), args.Error(1)
}

func (m *mockClubService) RemoveCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error) {
	args := m.Called(ctx, clubID, userID)
	return args.Get(0).(domain.Club), args.Error(1)
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) ExportEventReport(ctx context.Context, eventID string) (string, []byte, error) {
	args := m.Called(ctx, eventID)
	data, _ := args.Get(1).([]byte)
	return args.String(0), data, args.Error(2)
}

type mockUploadService struct {
	mock.Mock
}

func (m *mockUploadService) UploadImage(ctx context.Context, userID string, data []byte) (string, error) {
	args := m.Called(ctx, userID, data)
	return args.String(0), args.Error(1)
}
