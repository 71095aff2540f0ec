package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is the single attendee rating of an event, at most one per
// (event, student). StudentName is a snapshot taken at submission time.
type Feedback struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event"`
	StudentID   string    `json:"student"`
	StudentName string    `json:"student_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

func IsValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
