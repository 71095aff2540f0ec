package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

func newFeedbackFixture(t *testing.T) (eventFixture, *FeedbackService, *fakeFeedbackRepo) {
	t.Helper()

	f := newEventFixture(t)
	repo := &fakeFeedbackRepo{}
	svc := NewFeedbackService(repo, f.repo, nil)
	svc.loc = f.svc.loc
	svc.now = f.clock.Now

	return f, svc, repo
}

var nextDay = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

func TestFeedbackService_SubmitAttendeeFeedback(t *testing.T) {
	ctx := context.Background()
	f, svc, repo := newFeedbackFixture(t)

	e := f.createApproved(t)
	_, err := f.svc.Register(ctx, e.ID, studentS.ID)
	require.NoError(t, err)

	f.clock.Set(f.before)
	_, err = svc.SubmitAttendeeFeedback(ctx, e.ID, studentS, 4, "great")
	assert.ErrorIs(t, err, ErrEventDateNotPassed)

	f.clock.Set(nextDay)
	_, err = svc.SubmitAttendeeFeedback(ctx, e.ID, studentT, 4, "great")
	assert.ErrorIs(t, err, ErrStudentNotRegistered)

	fb, err := svc.SubmitAttendeeFeedback(ctx, e.ID, studentS, 4, "great")
	require.NoError(t, err)
	assert.Equal(t, studentS.Name, fb.StudentName)
	assert.Equal(t, 4, fb.Rating)
	assert.Equal(t, nextDay, fb.CreatedAt)

	_, err = svc.SubmitAttendeeFeedback(ctx, e.ID, studentS, 2, "changed my mind")
	assert.ErrorIs(t, err, ErrFeedbackExists)

	list, err := svc.EventFeedback(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].Rating)
	assert.Equal(t, "great", list[0].Comment)
	assert.Len(t, repo.feedback, 1)

	mine, err := svc.StudentFeedback(ctx, studentS.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestFeedbackService_RatingCheckedBeforeLoad(t *testing.T) {
	ctx := context.Background()
	_, svc, repo := newFeedbackFixture(t)

	for _, rating := range []int{domain.MinRating - 1, domain.MaxRating + 1} {
		_, err := svc.SubmitAttendeeFeedback(ctx, "does-not-exist", studentS, rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	assert.Empty(t, repo.feedback)

	_, err := svc.SubmitAttendeeFeedback(ctx, "does-not-exist", studentS, domain.MaxRating, "")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestFeedbackService_EventFeedbackUnknownEvent(t *testing.T) {
	_, svc, _ := newFeedbackFixture(t)

	_, err := svc.EventFeedback(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestFeedbackService_SameDayIgnoresStartTime(t *testing.T) {
	ctx := context.Background()
	f, svc, repo := newFeedbackFixture(t)

	e := f.createApproved(t)
	_, err := f.svc.Register(ctx, e.ID, studentS.ID)
	require.NoError(t, err)

	for _, now := range []time.Time{
		time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC),
	} {
		f.clock.Set(now)
		_, err = svc.SubmitAttendeeFeedback(ctx, e.ID, studentS, 5, "")
		assert.ErrorIs(t, err, ErrEventDateNotPassed, now.String())
	}
	assert.Empty(t, repo.feedback)

	f.clock.Set(nextDay)
	_, err = svc.SubmitAttendeeFeedback(ctx, e.ID, studentS, 5, "")
	assert.NoError(t, err)
}

func TestFeedbackService_EventFeedbackHidesUnapproved(t *testing.T) {
	ctx := context.Background()
	f, svc, _ := newFeedbackFixture(t)

	pending, err := f.svc.CreateEvent(ctx, coordinator, sampleEvent(t))
	require.NoError(t, err)
	_, err = svc.EventFeedback(ctx, pending.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	rejected, err := f.svc.VerifyEvent(ctx, pending.ID, domain.StatusRejected, domain.EventPatch{})
	require.NoError(t, err)
	_, err = svc.EventFeedback(ctx, rejected.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	approved := f.createApproved(t)
	list, err := svc.EventFeedback(ctx, approved.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
