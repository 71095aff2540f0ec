package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository"
)

const notAvailable = "N/A"

type ClubReader interface {
	FindByID(ctx context.Context, id string) (domain.Club, error)
}

type FeedbackReader interface {
	FindByEvent(ctx context.Context, eventID string) ([]domain.Feedback, error)
}

// ReportWriter turns a report into a downloadable file.
type ReportWriter interface {
	WriteEventReport(report domain.EventReport) ([]byte, error)
}

type ReportService struct {
	events   EventReader
	clubs    ClubReader
	users    UserLookup
	feedback FeedbackReader
	writer   ReportWriter
}

func NewReportService(events EventReader, clubs ClubReader, users UserLookup, feedback FeedbackReader, writer ReportWriter) *ReportService {
	return &ReportService{
		events:   events,
		clubs:    clubs,
		users:    users,
		feedback: feedback,
		writer:   writer,
	}
}

func (s *ReportService) BuildEventReport(ctx context.Context, eventID string) (domain.EventReport, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.EventReport{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	clubName := notAvailable
	if event.ClubID != "" {
		club, err := s.clubs.FindByID(ctx, event.ClubID)
		switch {
		case err == nil:
			clubName = club.Name
		case !errors.Is(err, repository.ErrClubNotFound):
			return domain.EventReport{}, fmt.Errorf("s.clubs.FindByID -> %w", err)
		}
	}

	coordinatorName := notAvailable
	coordinator, err := s.users.FindByID(ctx, event.CreatedByID)
	switch {
	case err == nil:
		coordinatorName = coordinator.Name
	case !errors.Is(err, repository.ErrUserNotFound):
		return domain.EventReport{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	students, err := s.users.FindByIDs(ctx, event.RegisteredStudentIDs)
	if err != nil {
		return domain.EventReport{}, fmt.Errorf("s.users.FindByIDs -> %w", err)
	}

	feedback, err := s.feedback.FindByEvent(ctx, eventID)
	if err != nil {
		return domain.EventReport{}, fmt.Errorf("s.feedback.FindByEvent -> %w", err)
	}

	return domain.BuildEventReport(event, clubName, coordinatorName, students, feedback), nil
}

// ExportEventReport returns the file name and contents of the event's
// spreadsheet report.
func (s *ReportService) ExportEventReport(ctx context.Context, eventID string) (string, []byte, error) {
	report, err := s.BuildEventReport(ctx, eventID)
	if err != nil {
		return "", nil, err
	}

	data, err := s.writer.WriteEventReport(report)
	if err != nil {
		return "", nil, fmt.Errorf("s.writer.WriteEventReport -> %w", err)
	}

	return domain.ReportFileName(report.Summary.EventName), data, nil
}
