// Package spreadsheet renders event reports as xlsx workbooks.
package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

const SheetName = "Event Report"

var participantHeader = []any{
	"Student ID", "Name", "Email", "Department", "Contact", "Feedback Rating", "Feedback Comment", "Attendance",
}

var columnWidths = map[string]float64{
	"A": 38, "B": 24, "C": 30, "D": 18, "E": 16, "F": 16, "G": 40, "H": 12,
}

type ExcelReportWriter struct{}

func NewExcelReportWriter() *ExcelReportWriter {
	return &ExcelReportWriter{}
}

// WriteEventReport lays out the summary block, a blank row, then one row
// per participant under a header.
func (w *ExcelReportWriter) WriteEventReport(report domain.EventReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("f.SetSheetName -> %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("f.NewStyle -> %w", err)
	}

	s := report.Summary
	summary := [][]any{
		{"Event Name", s.EventName},
		{"Date", s.Date},
		{"Time", s.Time},
		{"Venue", s.Venue},
		{"Club", s.Club},
		{"Coordinator", s.Coordinator},
		{"Total Participants", s.TotalParticipants},
		{"Total Feedback", s.TotalFeedback},
		{"Present", s.PresentCount},
		{"Absent", s.AbsentCount},
	}

	row := 1
	for _, values := range summary {
		if err = setRow(f, row, values); err != nil {
			return nil, err
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err = f.SetCellStyle(SheetName, cell, cell, bold); err != nil {
			return nil, fmt.Errorf("f.SetCellStyle -> %w", err)
		}
		row++
	}

	row++
	if err = setRow(f, row, participantHeader); err != nil {
		return nil, err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(participantHeader), row)
	if err = f.SetCellStyle(SheetName, first, last, bold); err != nil {
		return nil, fmt.Errorf("f.SetCellStyle -> %w", err)
	}
	row++

	for _, r := range report.Rows {
		values := []any{
			r.StudentID, r.Name, r.Email, r.Department, r.Contact, r.FeedbackRating, r.FeedbackComment, string(r.Attendance),
		}
		if err = setRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	for col, width := range columnWidths {
		if err = f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("f.SetColWidth -> %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("f.WriteToBuffer -> %w", err)
	}

	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err = f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("f.SetSheetRow(%s) -> %w", cell, err)
	}

	return nil
}
