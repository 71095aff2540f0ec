package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository/dao"
)

var ErrFeedbackExists = dao.ErrFeedbackExists

type FeedbackDAO interface {
	Insert(ctx context.Context, fb dao.Feedback) (dao.Feedback, error)
	FindByEvent(ctx context.Context, eventID string) ([]dao.Feedback, error)
	FindByStudent(ctx context.Context, studentID string) ([]dao.Feedback, error)
}

type FeedbackRepository struct {
	dao FeedbackDAO
}

func NewFeedbackRepository(dao FeedbackDAO) *FeedbackRepository {
	return &FeedbackRepository{
		dao: dao,
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	created, err := r.dao.Insert(ctx, dao.Feedback{
		EventID:     fb.EventID,
		StudentID:   fb.StudentID,
		StudentName: fb.StudentName,
		Rating:      fb.Rating,
		Comment:     fb.Comment,
		CreatedAt:   fb.CreatedAt,
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return feedbackDaoToDomain(created), nil
}

func (r *FeedbackRepository) FindByEvent(ctx context.Context, eventID string) ([]domain.Feedback, error) {
	found, err := r.dao.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	return feedbackListDaoToDomain(found), nil
}

func (r *FeedbackRepository) FindByStudent(ctx context.Context, studentID string) ([]domain.Feedback, error) {
	found, err := r.dao.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStudent -> %w", err)
	}

	return feedbackListDaoToDomain(found), nil
}

func feedbackDaoToDomain(f dao.Feedback) domain.Feedback {
	return domain.Feedback{
		ID:          f.ID,
		EventID:     f.EventID,
		StudentID:   f.StudentID,
		StudentName: f.StudentName,
		Rating:      f.Rating,
		Comment:     f.Comment,
		CreatedAt:   f.CreatedAt,
	}
}

func feedbackListDaoToDomain(list []dao.Feedback) []domain.Feedback {
	result := make([]domain.Feedback, 0, len(list))
	for _, f := range list {
		result = append(result, feedbackDaoToDomain(f))
	}
	return result
}
