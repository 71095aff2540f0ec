package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository/dao"
)

var (
	ErrClubNotFound       = dao.ErrClubNotFound
	ErrAlreadyCoordinator = dao.ErrAlreadyCoordinator
	ErrNotClubCoordinator = dao.ErrNotClubCoordinator
)

type ClubDAO interface {
	Insert(ctx context.Context, club dao.Club) (dao.Club, error)
	FindByID(ctx context.Context, id string) (dao.Club, error)
	FindAll(ctx context.Context) ([]dao.Club, error)
	AssignCoordinator(ctx context.Context, clubID, userID string) (dao.Club, error)
	RemoveCoordinator(ctx context.Context, clubID, userID string) (dao.Club, error)
}

type ClubRepository struct {
	dao ClubDAO
}

func NewClubRepository(dao ClubDAO) *ClubRepository {
	return &ClubRepository{
		dao: dao,
	}
}

func (r *ClubRepository) Create(ctx context.Context, club domain.Club) (domain.Club, error) {
	created, err := r.dao.Insert(ctx, dao.Club{
		Name:        club.Name,
		Description: club.Description,
		Image:       club.Image,
		CreatedByID: club.CreatedByID,
	})
	if err != nil {
		return domain.Club{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return clubDaoToDomain(created), nil
}

func (r *ClubRepository) FindByID(ctx context.Context, id string) (domain.Club, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Club{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return clubDaoToDomain(found), nil
}

func (r *ClubRepository) FindAll(ctx context.Context) ([]domain.Club, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	clubs := make([]domain.Club, 0, len(found))
	for _, c := range found {
		clubs = append(clubs, clubDaoToDomain(c))
	}

	return clubs, nil
}

func (r *ClubRepository) AssignCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error) {
	club, err := r.dao.AssignCoordinator(ctx, clubID, userID)
	if err != nil {
		return domain.Club{}, fmt.Errorf("r.dao.AssignCoordinator -> %w", err)
	}

	return clubDaoToDomain(club), nil
}

func (r *ClubRepository) RemoveCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error) {
	club, err := r.dao.RemoveCoordinator(ctx, clubID, userID)
	if err != nil {
		return domain.Club{}, fmt.Errorf("r.dao.RemoveCoordinator -> %w", err)
	}

	return clubDaoToDomain(club), nil
}

func clubDaoToDomain(c dao.Club) domain.Club {
	return domain.Club{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Image:        c.Image,
		CreatedByID:  c.CreatedByID,
		Coordinators: usersDaoToDomain(c.Coordinators),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
