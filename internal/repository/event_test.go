package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

func TestEventMapping_RoundTrip(t *testing.T) {
	date, err := domain.ParseEventDate("2026-03-10")
	require.NoError(t, err)

	e := domain.Event{
		ID:    "e-1",
		Name:  "Tech Fest",
		Date:  date,
		Time:  "18:30",
		Venue: "Main Hall",
		AdditionalImages: []domain.EventImage{
			{URL: "https://cdn.campus.edu/a.webp", Description: "stage"},
		},
		Status:      domain.StatusApproved,
		CreatedByID: "c-1",
		ClubID:      "club-1",
	}

	row := eventDomainToDao(e)
	require.Len(t, row.AdditionalImages, 1)
	assert.Equal(t, "stage", row.AdditionalImages[0].Description)

	got := eventDaoToDomain(row)
	assert.Equal(t, e.AdditionalImages, got.AdditionalImages)
	assert.Equal(t, "club-1", got.ClubID)
	assert.Equal(t, time.UTC, got.Date.Location())
	assert.Empty(t, got.RegisteredStudentIDs)
}
