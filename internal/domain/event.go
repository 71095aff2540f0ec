package domain

import (
	"fmt"
	"time"
)

type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusApproved EventStatus = "approved"
	StatusRejected EventStatus = "rejected"
)

func (s EventStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

func (s AttendanceStatus) IsValid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	MaxAdditionalImages = 3
)

type EventImage struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type Attendance struct {
	StudentID  string           `json:"student"`
	Status     AttendanceStatus `json:"status"`
	MarkedAt   time.Time        `json:"marked_at"`
	MarkedByID string           `json:"marked_by"`
}

type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Date is a calendar day stored as UTC midnight; Time is the local
	// "HH:MM" start time on that day.
	Date             time.Time    `json:"date"`
	Time             string       `json:"time"`
	Venue            string       `json:"venue"`
	Address          string       `json:"address"`
	ContactEmail     string       `json:"contact_email"`
	Image            string       `json:"image"`
	AdditionalImages []EventImage `json:"additional_images"`
	Status           EventStatus  `json:"status"`
	CreatedByID      string       `json:"created_by"`
	// ClubID is copied from the coordinator's assigned club when the event is
	// created and is never re-synced afterwards.
	ClubID               string       `json:"club"`
	RegisteredStudentIDs []string     `json:"registered_students"`
	Attendance           []Attendance `json:"attendance"`
	IsRegistered         bool         `json:"is_registered,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// ParseEventDate parses a YYYY-MM-DD day into UTC midnight.
func ParseEventDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// StartsAt combines the event day with its HH:MM start time in loc, seconds zeroed.
func (e Event) StartsAt(loc *time.Location) (time.Time, error) {
	tod, err := time.Parse(TimeLayout, e.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event time %q: %w", e.Time, err)
	}
	y, m, d := e.Date.Date()

	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, loc), nil
}

func (e Event) HasStarted(now time.Time, loc *time.Location) (bool, error) {
	start, err := e.StartsAt(loc)
	if err != nil {
		return false, err
	}

	return !now.Before(start), nil
}

// DatePassed reports whether the event day is strictly before now's calendar
// day in loc. The start time is ignored.
func (e Event) DatePassed(now time.Time, loc *time.Location) bool {
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := e.Date.Date()

	return time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC).Before(today)
}

func (e Event) IsStudentRegistered(studentID string) bool {
	for _, id := range e.RegisteredStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

func (e Event) AttendanceOf(studentID string) (Attendance, bool) {
	for _, a := range e.Attendance {
		if a.StudentID == studentID {
			return a, true
		}
	}
	return Attendance{}, false
}

// UpsertAttendance overwrites the record of the same student or appends a new one.
func (e *Event) UpsertAttendance(rec Attendance) {
	for i := range e.Attendance {
		if e.Attendance[i].StudentID == rec.StudentID {
			e.Attendance[i] = rec
			return
		}
	}
	e.Attendance = append(e.Attendance, rec)
}

// EventPatch carries the descriptive fields of an update. Only non-nil
// fields are applied.
type EventPatch struct {
	Name             *string
	Description      *string
	Date             *time.Time
	Time             *string
	Venue            *string
	Address          *string
	ContactEmail     *string
	Image            *string
	AdditionalImages *[]EventImage
}

func (e *Event) Apply(p EventPatch) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Venue != nil {
		e.Venue = *p.Venue
	}
	if p.Address != nil {
		e.Address = *p.Address
	}
	if p.ContactEmail != nil {
		e.ContactEmail = *p.ContactEmail
	}
	if p.Image != nil {
		e.Image = *p.Image
	}
	if p.AdditionalImages != nil {
		e.AdditionalImages = append([]EventImage(nil), (*p.AdditionalImages)...)
	}
}

type EventFilter struct {
	Status      EventStatus
	CreatedByID string
	StudentID   string
}

type EventParticipant struct {
	Student    User            `json:"student"`
	Attendance AttendanceLabel `json:"attendance"`
}
