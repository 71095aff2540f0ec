package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository"
)

var (
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrInvalidUserRole = repository.ErrInvalidUserRole

	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) (domain.User, error)
	DeleteWithRole(ctx context.Context, id string, role domain.Role) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (domain.User, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.User{}, fmt.Errorf("%w: name cannot be blank", ErrInvalidInput)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	user.Apply(patch)

	updated, err := s.repo.UpdateProfile(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateProfile -> %w", err)
	}

	return updated, nil
}

func (s *UserService) ListFaculty(ctx context.Context) ([]domain.User, error) {
	faculty, err := s.repo.FindByRole(ctx, domain.RoleFaculty)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByRole -> %w", err)
	}

	return faculty, nil
}

// DeleteFaculty hard-deletes a faculty account. Any other role is refused.
func (s *UserService) DeleteFaculty(ctx context.Context, id string) error {
	if err := s.repo.DeleteWithRole(ctx, id, domain.RoleFaculty); err != nil {
		return fmt.Errorf("s.repo.DeleteWithRole -> %w", err)
	}

	return nil
}
