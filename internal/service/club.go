package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository"
)

var (
	ErrClubNotFound       = repository.ErrClubNotFound
	ErrAlreadyCoordinator = repository.ErrAlreadyCoordinator
	ErrNotClubCoordinator = repository.ErrNotClubCoordinator
)

type ClubRepository interface {
	Create(ctx context.Context, club domain.Club) (domain.Club, error)
	FindByID(ctx context.Context, id string) (domain.Club, error)
	FindAll(ctx context.Context) ([]domain.Club, error)
	AssignCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error)
	RemoveCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error)
}

type ClubService struct {
	repo ClubRepository
}

func NewClubService(repo ClubRepository) *ClubService {
	return &ClubService{
		repo: repo,
	}
}

func (s *ClubService) CreateClub(ctx context.Context, faculty domain.User, club domain.Club) (domain.Club, error) {
	if faculty.Role != domain.RoleFaculty {
		return domain.Club{}, fmt.Errorf("%w: user %v is not faculty", ErrPermissionDenied, faculty.ID)
	}
	if strings.TrimSpace(club.Name) == "" {
		return domain.Club{}, fmt.Errorf("%w: club name is required", ErrInvalidInput)
	}

	club.CreatedByID = faculty.ID
	club.Coordinators = nil

	created, err := s.repo.Create(ctx, club)
	if err != nil {
		return domain.Club{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ClubService) ListClubs(ctx context.Context) ([]domain.Club, error) {
	clubs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return clubs, nil
}

func (s *ClubService) GetClub(ctx context.Context, id string) (domain.Club, error) {
	club, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Club{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return club, nil
}

// AssignCoordinator promotes a student to coordinator of the club. The role
// change and the membership change are applied together or not at all.
func (s *ClubService) AssignCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error) {
	club, err := s.repo.AssignCoordinator(ctx, clubID, userID)
	if err != nil {
		return domain.Club{}, fmt.Errorf("s.repo.AssignCoordinator -> %w", err)
	}

	return club, nil
}

func (s *ClubService) RemoveCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error) {
	club, err := s.repo.RemoveCoordinator(ctx, clubID, userID)
	if err != nil {
		return domain.Club{}, fmt.Errorf("s.repo.RemoveCoordinator -> %w", err)
	}

	return club, nil
}
