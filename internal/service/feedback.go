package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository"
)

var (
	ErrFeedbackExists = repository.ErrFeedbackExists
	ErrInvalidRating  = fmt.Errorf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
)

type FeedbackRepository interface {
	Create(ctx context.Context, fb domain.Feedback) (domain.Feedback, error)
	FindByEvent(ctx context.Context, eventID string) ([]domain.Feedback, error)
	FindByStudent(ctx context.Context, studentID string) ([]domain.Feedback, error)
}

type EventReader interface {
	FindByID(ctx context.Context, id string) (domain.Event, error)
}

// FeedbackService owns the single attendee feedback relation. Reviews and
// feedback are the same record, keyed by (event, student).
type FeedbackService struct {
	repo   FeedbackRepository
	events EventReader
	loc    *time.Location
	now    func() time.Time
}

func NewFeedbackService(repo FeedbackRepository, events EventReader, loc *time.Location) *FeedbackService {
	if loc == nil {
		loc = time.Local
	}

	return &FeedbackService{
		repo:   repo,
		events: events,
		loc:    loc,
		now:    time.Now,
	}
}

// SubmitAttendeeFeedback stores the student's rating of an event they
// registered for once the event day is over. A student rates an event at most once.
func (s *FeedbackService) SubmitAttendeeFeedback(ctx context.Context, eventID string, student domain.User, rating int, comment string) (domain.Feedback, error) {
	if !domain.IsValidRating(rating) {
		return domain.Feedback{}, ErrInvalidRating
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}
	if !event.IsStudentRegistered(student.ID) {
		return domain.Feedback{}, ErrStudentNotRegistered
	}

	now := s.now()
	if !event.DatePassed(now, s.loc) {
		return domain.Feedback{}, ErrEventDateNotPassed
	}

	created, err := s.repo.Create(ctx, domain.Feedback{
		EventID:     eventID,
		StudentID:   student.ID,
		StudentName: student.Name,
		Rating:      rating,
		Comment:     comment,
		CreatedAt:   now.UTC(),
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *FeedbackService) EventFeedback(ctx context.Context, eventID string) ([]domain.Feedback, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("s.events.FindByID -> %w", err)
	}
	if event.Status != domain.StatusApproved {
		return nil, ErrEventNotFound
	}

	feedback, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return feedback, nil
}

func (s *FeedbackService) StudentFeedback(ctx context.Context, studentID string) ([]domain.Feedback, error) {
	feedback, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByStudent -> %w", err)
	}

	return feedback, nil
}
