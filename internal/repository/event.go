package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository/dao"
)

var (
	ErrEventNotFound        = dao.ErrEventNotFound
	ErrEventNotApproved     = dao.ErrEventNotApproved
	ErrAlreadyRegistered    = dao.ErrAlreadyRegistered
	ErrStudentNotRegistered = dao.ErrStudentNotRegistered
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id string) (dao.Event, error)
	FindAll(ctx context.Context, filter dao.EventFilter) ([]dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	Delete(ctx context.Context, id string) error
	AddRegistration(ctx context.Context, eventID, studentID string, at time.Time) error
	UpsertAttendance(ctx context.Context, rec dao.EventAttendance) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx, dao.EventFilter{
		Status:      string(filter.Status),
		CreatedByID: filter.CreatedByID,
		StudentID:   filter.StudentID,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventDaoToDomain(e))
	}

	return events, nil
}

// Update persists the descriptive fields and the status of event.
func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return eventDaoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) AddRegistration(ctx context.Context, eventID, studentID string, at time.Time) error {
	if err := r.dao.AddRegistration(ctx, eventID, studentID, at); err != nil {
		return fmt.Errorf("r.dao.AddRegistration -> %w", err)
	}

	return nil
}

func (r *EventRepository) UpsertAttendance(ctx context.Context, eventID string, rec domain.Attendance) error {
	err := r.dao.UpsertAttendance(ctx, dao.EventAttendance{
		EventID:    eventID,
		StudentID:  rec.StudentID,
		Status:     string(rec.Status),
		MarkedAt:   rec.MarkedAt,
		MarkedByID: rec.MarkedByID,
	})
	if err != nil {
		return fmt.Errorf("r.dao.UpsertAttendance -> %w", err)
	}

	return nil
}

func eventDomainToDao(e domain.Event) dao.Event {
	images := make([]dao.EventImage, 0, len(e.AdditionalImages))
	for _, img := range e.AdditionalImages {
		images = append(images, dao.EventImage(img))
	}

	return dao.Event{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		Date:             e.Date,
		Time:             e.Time,
		Venue:            e.Venue,
		Address:          e.Address,
		ContactEmail:     e.ContactEmail,
		Image:            e.Image,
		AdditionalImages: images,
		Status:           string(e.Status),
		CreatedByID:      e.CreatedByID,
		ClubID:           optional(e.ClubID),
	}
}

func eventDaoToDomain(e dao.Event) domain.Event {
	images := make([]domain.EventImage, 0, len(e.AdditionalImages))
	for _, img := range e.AdditionalImages {
		images = append(images, domain.EventImage(img))
	}

	registered := make([]string, 0, len(e.Registrations))
	for _, r := range e.Registrations {
		registered = append(registered, r.StudentID)
	}

	attendance := make([]domain.Attendance, 0, len(e.Attendance))
	for _, a := range e.Attendance {
		attendance = append(attendance, domain.Attendance{
			StudentID:  a.StudentID,
			Status:     domain.AttendanceStatus(a.Status),
			MarkedAt:   a.MarkedAt,
			MarkedByID: a.MarkedByID,
		})
	}

	return domain.Event{
		ID:                   e.ID,
		Name:                 e.Name,
		Description:          e.Description,
		Date:                 e.Date.UTC(),
		Time:                 e.Time,
		Venue:                e.Venue,
		Address:              e.Address,
		ContactEmail:         e.ContactEmail,
		Image:                e.Image,
		AdditionalImages:     images,
		Status:               domain.EventStatus(e.Status),
		CreatedByID:          e.CreatedByID,
		ClubID:               deref(e.ClubID),
		RegisteredStudentIDs: registered,
		Attendance:           attendance,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}
