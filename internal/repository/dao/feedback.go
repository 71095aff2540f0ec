package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrFeedbackExists = errors.New("feedback already submitted for this event")

type Feedback struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	EventID     string `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_event_student"`
	StudentID   string `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_event_student;index"`
	StudentName string
	Rating      int `gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment     string
	CreatedAt   time.Time
}

func (Feedback) TableName() string {
	return "feedback"
}

type FeedbackDAO struct {
	db *gorm.DB
}

func NewFeedbackDAO(db *gorm.DB) *FeedbackDAO {
	return &FeedbackDAO{
		db: db,
	}
}

func (d *FeedbackDAO) Insert(ctx context.Context, fb Feedback) (Feedback, error) {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}

	result := d.db.WithContext(ctx).Create(&fb)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Feedback{}, ErrFeedbackExists
		}

		return Feedback{}, result.Error
	}

	return fb, nil
}

func (d *FeedbackDAO) FindByEvent(ctx context.Context, eventID string) ([]Feedback, error) {
	var feedback []Feedback

	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at").Find(&feedback)
	if result.Error != nil {
		return nil, result.Error
	}

	return feedback, nil
}

func (d *FeedbackDAO) FindByStudent(ctx context.Context, studentID string) ([]Feedback, error) {
	var feedback []Feedback

	result := d.db.WithContext(ctx).Where("student_id = ?", studentID).Order("created_at DESC").Find(&feedback)
	if result.Error != nil {
		return nil, result.Error
	}

	return feedback, nil
}
