package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventNotApproved     = errors.New("event is not approved")
	ErrAlreadyRegistered    = errors.New("student already registered for this event")
	ErrStudentNotRegistered = errors.New("student is not registered for this event")
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type EventImage struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type Event struct {
	ID               string    `gorm:"primaryKey;type:uuid"`
	Name             string    `gorm:"not null"`
	Description      string
	Date             time.Time `gorm:"type:date;not null"`
	Time             string    `gorm:"type:varchar(5);not null"`
	Venue            string    `gorm:"not null"`
	Address          string
	ContactEmail     string
	Image            string
	AdditionalImages datatypes.JSONSlice[EventImage]
	Status           string              `gorm:"not null;default:pending;index"`
	CreatedByID      string              `gorm:"type:uuid;not null;index"`
	ClubID           *string             `gorm:"type:uuid;index"`
	Registrations    []EventRegistration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Attendance       []EventAttendance   `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EventRegistration struct {
	EventID   string `gorm:"primaryKey;type:uuid"`
	StudentID string `gorm:"primaryKey;type:uuid;index"`
	CreatedAt time.Time
}

type EventAttendance struct {
	EventID    string    `gorm:"primaryKey;type:uuid"`
	StudentID  string    `gorm:"primaryKey;type:uuid"`
	Status     string    `gorm:"not null"` // "present" or "absent"
	MarkedAt   time.Time `gorm:"not null"`
	MarkedByID string    `gorm:"type:uuid;not null"`
}

func (EventAttendance) TableName() string {
	return "event_attendance"
}

type EventFilter struct {
	Status      string
	CreatedByID string
	StudentID   string
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Registrations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Attendance", func(db *gorm.DB) *gorm.DB { return db.Order("marked_at") })
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Registrations = nil
	event.Attendance = nil

	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id string) (Event, error) {
	var event Event

	result := d.withChildren(d.db.WithContext(ctx)).First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context, filter EventFilter) ([]Event, error) {
	q := d.db.WithContext(ctx).Model(&Event{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CreatedByID != "" {
		q = q.Where("created_by_id = ?", filter.CreatedByID)
	}
	if filter.StudentID != "" {
		registered := d.db.Model(&EventRegistration{}).Select("event_id").Where("student_id = ?", filter.StudentID)
		q = q.Where("id IN (?)", registered)
	}

	var events []Event
	if err := d.withChildren(q).Order("date, time").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

// Update writes the descriptive fields and the status. Registrations and
// attendance are only changed through their own conditional writes.
func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	event.Registrations = nil
	event.Attendance = nil

	result := d.db.WithContext(ctx).
		Model(&Event{ID: event.ID}).
		Select("name", "description", "date", "time", "venue", "address", "contact_email",
			"image", "additional_images", "status", "updated_at").
		Updates(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, event.ID)
}

// Delete removes the event with its registrations, attendance and feedback.
func (d *EventDAO) Delete(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&EventAttendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&EventRegistration{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Event{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}

		return nil
	})
}

// AddRegistration appends the student to an approved event in a single
// statement. When nothing is written the event is reloaded to report which
// guard failed.
func (d *EventDAO) AddRegistration(ctx context.Context, eventID, studentID string, at time.Time) error {
	result := d.db.WithContext(ctx).Exec(`
		INSERT INTO event_registrations (event_id, student_id, created_at)
		SELECT id, ?::uuid, ?::timestamptz FROM events WHERE id = ? AND status = ?
		ON CONFLICT DO NOTHING`,
		studentID, at, eventID, StatusApproved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var event Event
	if err := d.db.WithContext(ctx).Select("id", "status").First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if event.Status != StatusApproved {
		return ErrEventNotApproved
	}

	return ErrAlreadyRegistered
}

// UpsertAttendance inserts or overwrites the attendance record of a
// registered student.
func (d *EventDAO) UpsertAttendance(ctx context.Context, rec EventAttendance) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reg EventRegistration
		err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Where("event_id = ? AND student_id = ?", rec.EventID, rec.StudentID).
			Take(&reg).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotRegistered
			}
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "marked_at", "marked_by_id"}),
		}).Create(&rec).Error
	})
}
