package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
	ErrInvalidUserRole = dao.ErrInvalidUserRole
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id string) (dao.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindByRole(ctx context.Context, role string) ([]dao.User, error)
	UpdateProfile(ctx context.Context, user dao.User) (dao.User, error)
	DeleteWithRole(ctx context.Context, id, role string) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:       user.Email,
		Password:    user.Password,
		Role:        string(user.Role),
		Name:        user.Name,
		Contact:     user.Contact,
		Department:  user.Department,
		Photo:       user.Photo,
		CreatedByID: optional(user.CreatedByID),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return userDaoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return userDaoToDomain(found), nil
}

// FindByIDs returns the users found, in no particular order. Unknown ids are skipped.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	found, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	return usersDaoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	found, err := r.dao.FindByRole(ctx, string(role))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRole -> %w", err)
	}

	return usersDaoToDomain(found), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.UpdateProfile(ctx, dao.User{
		ID:         user.ID,
		Name:       user.Name,
		Contact:    user.Contact,
		Department: user.Department,
		Photo:      user.Photo,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.UpdateProfile -> %w", err)
	}

	return userDaoToDomain(updated), nil
}

func (r *UserRepository) DeleteWithRole(ctx context.Context, id string, role domain.Role) error {
	if err := r.dao.DeleteWithRole(ctx, id, string(role)); err != nil {
		return fmt.Errorf("r.dao.DeleteWithRole -> %w", err)
	}

	return nil
}

func userDaoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:             u.ID,
		Email:          u.Email,
		Password:       u.Password,
		Name:           u.Name,
		Role:           domain.Role(u.Role),
		Contact:        u.Contact,
		Department:     u.Department,
		Photo:          u.Photo,
		AssignedClubID: deref(u.AssignedClubID),
		CreatedByID:    deref(u.CreatedByID),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func usersDaoToDomain(users []dao.User) []domain.User {
	result := make([]domain.User, 0, len(users))
	for _, u := range users {
		result = append(result, userDaoToDomain(u))
	}
	return result
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
