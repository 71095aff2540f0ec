package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository"
)

var (
	ErrEventNotFound        = repository.ErrEventNotFound
	ErrEventNotApproved     = repository.ErrEventNotApproved
	ErrAlreadyRegistered    = repository.ErrAlreadyRegistered
	ErrStudentNotRegistered = repository.ErrStudentNotRegistered

	ErrNoAssignedClub          = errors.New("coordinator has no assigned club")
	ErrNotEventOwner           = errors.New("event was not created by this coordinator")
	ErrEventNotPending         = errors.New("only pending events can be updated")
	ErrEventNotStarted         = errors.New("event has not started yet")
	ErrEventDateNotPassed      = errors.New("event date has not passed yet")
	ErrInvalidEventStatus      = errors.New("status must be approved or rejected")
	ErrInvalidAttendanceStatus = errors.New("attendance status must be present or absent")
	ErrTooManyAdditionalImages = fmt.Errorf("at most %d additional images are allowed", domain.MaxAdditionalImages)
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id string) (domain.Event, error)
	FindAll(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id string) error
	AddRegistration(ctx context.Context, eventID, studentID string, at time.Time) error
	UpsertAttendance(ctx context.Context, eventID string, rec domain.Attendance) error
}

type UserLookup interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

type EventService struct {
	repo  EventRepository
	users UserLookup
	loc   *time.Location
	now   func() time.Time
}

// NewEventService builds the service. loc is the zone event start times are
// written in.
func NewEventService(repo EventRepository, users UserLookup, loc *time.Location) *EventService {
	if loc == nil {
		loc = time.Local
	}

	return &EventService{
		repo:  repo,
		users: users,
		loc:   loc,
		now:   time.Now,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, coordinator domain.User, event domain.Event) (domain.Event, error) {
	if coordinator.Role != domain.RoleCoordinator {
		return domain.Event{}, fmt.Errorf("%w: user %v is not a coordinator", ErrPermissionDenied, coordinator.ID)
	}
	if coordinator.AssignedClubID == "" {
		return domain.Event{}, ErrNoAssignedClub
	}

	event.ID = ""
	event.Status = domain.StatusPending
	event.CreatedByID = coordinator.ID
	event.ClubID = coordinator.AssignedClubID
	event.RegisteredStudentIDs = nil
	event.Attendance = nil
	if err := validateEvent(event); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// UpdateEvent applies patch to a pending event owned by the coordinator.
func (s *EventService) UpdateEvent(ctx context.Context, coordinatorID, eventID string, patch domain.EventPatch) (domain.Event, error) {
	event, err := s.ownedEvent(ctx, coordinatorID, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.Status != domain.StatusPending {
		return domain.Event{}, fmt.Errorf("%w: event is %s", ErrEventNotPending, event.Status)
	}

	event.Apply(patch)
	if err = validateEvent(event); err != nil {
		return domain.Event{}, err
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// VerifyEvent sets the status chosen by faculty, approved when empty, and
// applies patch in the same write. The current status does not matter.
func (s *EventService) VerifyEvent(ctx context.Context, eventID string, status domain.EventStatus, patch domain.EventPatch) (domain.Event, error) {
	if status == "" {
		status = domain.StatusApproved
	}
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return domain.Event{}, ErrInvalidEventStatus
	}

	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	event.Apply(patch)
	event.Status = status
	if err = validateEvent(event); err != nil {
		return domain.Event{}, err
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.repo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

// GetPublicEvent hides events that are not approved.
func (s *EventService) GetPublicEvent(ctx context.Context, eventID string) (domain.Event, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.Status != domain.StatusApproved {
		return domain.Event{}, ErrEventNotFound
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

// ListForStudent returns approved events flagged with the student's
// registration.
func (s *EventService) ListForStudent(ctx context.Context, studentID string) ([]domain.Event, error) {
	events, err := s.ListEvents(ctx, domain.EventFilter{Status: domain.StatusApproved})
	if err != nil {
		return nil, err
	}

	for i := range events {
		events[i].IsRegistered = events[i].IsStudentRegistered(studentID)
	}

	return events, nil
}

func (s *EventService) MyEvents(ctx context.Context, studentID string) ([]domain.Event, error) {
	events, err := s.ListEvents(ctx, domain.EventFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}

	for i := range events {
		events[i].IsRegistered = true
	}

	return events, nil
}

// Register adds the student to an approved event. A second registration of
// the same student fails with ErrAlreadyRegistered.
func (s *EventService) Register(ctx context.Context, eventID, studentID string) (domain.Event, error) {
	if err := s.repo.AddRegistration(ctx, eventID, studentID, s.now().UTC()); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.AddRegistration -> %w", err)
	}

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	event.IsRegistered = true

	return event, nil
}

// MarkAttendance records present or absent for a registered student once the
// event has started. Marking again overwrites the previous record.
func (s *EventService) MarkAttendance(ctx context.Context, coordinatorID, eventID, studentID string, status domain.AttendanceStatus) (domain.Event, error) {
	event, err := s.ownedEvent(ctx, coordinatorID, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if !status.IsValid() {
		return domain.Event{}, ErrInvalidAttendanceStatus
	}

	now := s.now()
	started, err := event.HasStarted(now, s.loc)
	if err != nil {
		return domain.Event{}, err
	}
	if !started {
		return domain.Event{}, ErrEventNotStarted
	}
	if !event.IsStudentRegistered(studentID) {
		return domain.Event{}, ErrStudentNotRegistered
	}

	rec := domain.Attendance{
		StudentID:  studentID,
		Status:     status,
		MarkedAt:   now.UTC(),
		MarkedByID: coordinatorID,
	}
	if err = s.repo.UpsertAttendance(ctx, eventID, rec); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.UpsertAttendance -> %w", err)
	}

	return s.GetEvent(ctx, eventID)
}

// Participants lists the registered students of the coordinator's event in
// registration order with their attendance label.
func (s *EventService) Participants(ctx context.Context, coordinatorID, eventID string) ([]domain.EventParticipant, error) {
	event, err := s.ownedEvent(ctx, coordinatorID, eventID)
	if err != nil {
		return nil, err
	}

	students, err := s.users.FindByIDs(ctx, event.RegisteredStudentIDs)
	if err != nil {
		return nil, fmt.Errorf("s.users.FindByIDs -> %w", err)
	}
	byID := make(map[string]domain.User, len(students))
	for _, u := range students {
		byID[u.ID] = u
	}

	participants := make([]domain.EventParticipant, 0, len(event.RegisteredStudentIDs))
	for _, id := range event.RegisteredStudentIDs {
		student, ok := byID[id]
		if !ok {
			student = domain.User{ID: id}
		}
		participants = append(participants, domain.EventParticipant{
			Student:    student,
			Attendance: domain.LabelOf(event, id),
		})
	}

	return participants, nil
}

func (s *EventService) ownedEvent(ctx context.Context, coordinatorID, eventID string) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if event.CreatedByID != coordinatorID {
		return domain.Event{}, ErrNotEventOwner
	}

	return event, nil
}

func validateEvent(e domain.Event) error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case e.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	case strings.TrimSpace(e.Venue) == "":
		return fmt.Errorf("%w: venue is required", ErrInvalidInput)
	case len(e.AdditionalImages) > domain.MaxAdditionalImages:
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrTooManyAdditionalImages)
	}
	if _, err := time.Parse(domain.TimeLayout, e.Time); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}

	return nil
}
