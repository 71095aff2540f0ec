package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

func TestAuthService_SignupStudent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	created, err := svc.SignupStudent(ctx, domain.User{
		Email:    "sam@campus.edu",
		Password: "secret123",
		Name:     "Sam",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, created.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))

	_, err = svc.SignupStudent(ctx, domain.User{Email: "sam@campus.edu", Password: "secret123", Name: "Sam"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.SignupStudent(ctx, domain.User{Email: "sam@campus.edu", Password: "secret123", Name: "Sam"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, "sam@campus.edu", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Sam", user.Name)

	_, err = svc.Login(ctx, "sam@campus.edu", "wrong-pass1")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(ctx, "nobody@campus.edu", "secret123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_RegisterFaculty(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo())
	admin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	faculty, err := svc.RegisterFaculty(ctx, admin, domain.User{Email: "f@campus.edu", Password: "secret123", Name: "Fay"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFaculty, faculty.Role)
	assert.Equal(t, admin.ID, faculty.CreatedByID)

	_, err = svc.RegisterFaculty(ctx, studentS, domain.User{Email: "g@campus.edu", Password: "secret123", Name: "Gus"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	admin := domain.User{Email: "admin@campus.edu", Password: "secret123", Name: "Admin"}

	created, err := svc.EnsureAdmin(ctx, admin)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, admin)
	require.NoError(t, err)
	assert.False(t, created)

	admins, err := repo.FindByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	faculty := domain.User{ID: "fac-1", Email: "f@campus.edu", Name: "Fay", Role: domain.RoleFaculty}
	repo := newFakeUserRepo(faculty, studentS)
	svc := NewUserService(repo)

	contact := "555-0101"
	updated, err := svc.UpdateProfile(ctx, studentS.ID, domain.ProfilePatch{Contact: &contact})
	require.NoError(t, err)
	assert.Equal(t, contact, updated.Contact)
	assert.Equal(t, studentS.Name, updated.Name)

	blank := "  "
	_, err = svc.UpdateProfile(ctx, studentS.ID, domain.ProfilePatch{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidInput)

	list, err := svc.ListFaculty(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, faculty.ID, list[0].ID)

	assert.ErrorIs(t, svc.DeleteFaculty(ctx, studentS.ID), ErrInvalidUserRole)
	require.NoError(t, svc.DeleteFaculty(ctx, faculty.ID))
	assert.ErrorIs(t, svc.DeleteFaculty(ctx, faculty.ID), ErrUserNotFound)
}
