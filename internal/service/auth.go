package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrWrongPassword   = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// SignupStudent registers a self-service account. Every signup is a student.
func (s *AuthService) SignupStudent(ctx context.Context, user domain.User) (domain.User, error) {
	user.Role = domain.RoleStudent
	user.CreatedByID = ""
	user.AssignedClubID = ""

	return s.create(ctx, user)
}

// RegisterFaculty creates a faculty account on behalf of an admin.
func (s *AuthService) RegisterFaculty(ctx context.Context, admin domain.User, faculty domain.User) (domain.User, error) {
	if admin.Role != domain.RoleAdmin {
		return domain.User{}, fmt.Errorf("%w: user %v is not an admin", ErrPermissionDenied, admin.ID)
	}

	faculty.Role = domain.RoleFaculty
	faculty.CreatedByID = admin.ID
	faculty.AssignedClubID = ""

	return s.create(ctx, faculty)
}

// EnsureAdmin creates the bootstrap admin unless a user with that email
// already exists. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, admin domain.User) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, admin.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	admin.Role = domain.RoleAdmin
	if _, err = s.create(ctx, admin); err != nil {
		if errors.Is(err, ErrUserEmailExists) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

func (s *AuthService) create(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hash

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
