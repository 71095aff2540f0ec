package domain

import (
	"regexp"
	"strconv"
)

type AttendanceLabel string

const (
	LabelPresent   AttendanceLabel = "Present"
	LabelAbsent    AttendanceLabel = "Absent"
	LabelNotMarked AttendanceLabel = "Not Marked"

	FeedbackNotSubmitted = "Not Submitted"

	reportFileSuffix = "_Report.xlsx"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

type EventReportSummary struct {
	EventName         string
	Date              string
	Time              string
	Venue             string
	Club              string
	Coordinator       string
	TotalParticipants int
	TotalFeedback     int
	PresentCount      int
	AbsentCount       int
}

type EventReportRow struct {
	StudentID       string
	Name            string
	Email           string
	Department      string
	Contact         string
	FeedbackRating  string
	FeedbackComment string
	Attendance      AttendanceLabel
}

// EventReport is the flattened table handed to the spreadsheet writer.
type EventReport struct {
	Summary EventReportSummary
	Rows    []EventReportRow
}

func LabelOf(e Event, studentID string) AttendanceLabel {
	a, ok := e.AttendanceOf(studentID)
	if !ok {
		return LabelNotMarked
	}
	if a.Status == AttendancePresent {
		return LabelPresent
	}
	return LabelAbsent
}

// BuildEventReport folds an event, its registered students and their
// feedback into report rows, one per registered student in registration order.
func BuildEventReport(e Event, clubName, coordinatorName string, students []User, feedback []Feedback) EventReport {
	byID := make(map[string]User, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	fbByStudent := make(map[string]Feedback, len(feedback))
	for _, f := range feedback {
		fbByStudent[f.StudentID] = f
	}

	report := EventReport{
		Summary: EventReportSummary{
			EventName:         e.Name,
			Date:              e.Date.Format(DateLayout),
			Time:              e.Time,
			Venue:             e.Venue,
			Club:              clubName,
			Coordinator:       coordinatorName,
			TotalParticipants: len(e.RegisteredStudentIDs),
			TotalFeedback:     len(feedback),
		},
		Rows: make([]EventReportRow, 0, len(e.RegisteredStudentIDs)),
	}

	for _, a := range e.Attendance {
		switch a.Status {
		case AttendancePresent:
			report.Summary.PresentCount++
		case AttendanceAbsent:
			report.Summary.AbsentCount++
		}
	}

	for _, id := range e.RegisteredStudentIDs {
		s := byID[id]
		row := EventReportRow{
			StudentID:       id,
			Name:            s.Name,
			Email:           s.Email,
			Department:      s.Department,
			Contact:         s.Contact,
			FeedbackRating:  FeedbackNotSubmitted,
			FeedbackComment: FeedbackNotSubmitted,
			Attendance:      LabelOf(e, id),
		}
		if f, ok := fbByStudent[id]; ok {
			row.FeedbackRating = strconv.Itoa(f.Rating)
			row.FeedbackComment = f.Comment
		}
		report.Rows = append(report.Rows, row)
	}

	return report
}

func ReportFileName(eventName string) string {
	return nonAlphanumeric.ReplaceAllString(eventName, "_") + reportFileSuffix
}
