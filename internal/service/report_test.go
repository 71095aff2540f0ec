package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

type mockReportWriter struct {
	mock.Mock
}

func (m *mockReportWriter) WriteEventReport(report domain.EventReport) ([]byte, error) {
	args := m.Called(report)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func TestReportService_ExportEventReport(t *testing.T) {
	ctx := context.Background()
	f, fbSvc, fbRepo := newFeedbackFixture(t)
	clubs := &fakeClubRepo{clubs: map[string]domain.Club{"club-x": {ID: "club-x", Name: "Robotics"}}}

	e := f.createApproved(t)
	_, err := f.svc.Register(ctx, e.ID, studentS.ID)
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, e.ID, studentT.ID)
	require.NoError(t, err)

	f.clock.Set(f.after)
	_, err = f.svc.MarkAttendance(ctx, coordinator.ID, e.ID, studentS.ID, domain.AttendancePresent)
	require.NoError(t, err)
	_, err = fbSvc.SubmitAttendeeFeedback(ctx, e.ID, studentS, 5, "loved it")
	require.NoError(t, err)

	writer := &mockReportWriter{}
	writer.On("WriteEventReport", mock.MatchedBy(func(r domain.EventReport) bool {
		return r.Summary.Club == "Robotics" &&
			r.Summary.Coordinator == coordinator.Name &&
			r.Summary.TotalParticipants == 2 &&
			r.Summary.TotalFeedback == 1 &&
			r.Summary.PresentCount == 1 &&
			len(r.Rows) == 2 &&
			r.Rows[0].FeedbackRating == "5" &&
			r.Rows[1].FeedbackRating == domain.FeedbackNotSubmitted &&
			r.Rows[1].Attendance == domain.LabelNotMarked
	})).Return([]byte("xlsx"), nil).Once()

	svc := NewReportService(f.repo, clubs, f.users, fbRepo, writer)
	name, data, err := svc.ExportEventReport(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tech_Fest_Report.xlsx", name)
	assert.Equal(t, []byte("xlsx"), data)
	writer.AssertExpectations(t)
}

func TestReportService_MissingClubAndCoordinator(t *testing.T) {
	ctx := context.Background()
	f, _, fbRepo := newFeedbackFixture(t)

	e := f.createApproved(t)
	delete(f.users.users, coordinator.ID)

	svc := NewReportService(f.repo, &fakeClubRepo{}, f.users, fbRepo, &mockReportWriter{})
	report, err := svc.BuildEventReport(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "N/A", report.Summary.Club)
	assert.Equal(t, "N/A", report.Summary.Coordinator)
	assert.Empty(t, report.Rows)
}

func TestReportService_Errors(t *testing.T) {
	ctx := context.Background()
	f, _, fbRepo := newFeedbackFixture(t)
	e := f.createApproved(t)

	writer := &mockReportWriter{}
	writer.On("WriteEventReport", mock.Anything).Return(nil, errors.New("disk full"))

	svc := NewReportService(f.repo, &fakeClubRepo{}, f.users, fbRepo, writer)

	_, _, err := svc.ExportEventReport(ctx, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, _, err = svc.ExportEventReport(ctx, e.ID)
	assert.ErrorContains(t, err, "disk full")
}
