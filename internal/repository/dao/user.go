package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUserRole = errors.New("invalid user role")
)

const (
	RoleAdmin       = "admin"
	RoleFaculty     = "faculty"
	RoleCoordinator = "coordinator"
	RoleStudent     = "student"
)

type User struct {
	ID string `gorm:"primaryKey;type:uuid"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Role string `gorm:"not null;index"` // "admin", "faculty", "coordinator" or "student"
	Name string `gorm:"not null"`

	Contact    string
	Department string
	Photo      string

	AssignedClubID *string `gorm:"type:uuid;index"`
	CreatedByID    *string `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByIDs(ctx context.Context, ids []string) ([]User, error) {
	var users []User
	if len(ids) == 0 {
		return users, nil
	}

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByRole(ctx context.Context, role string) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Where("role = ?", role).Order("created_at").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) UpdateProfile(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).
		Model(&User{ID: user.ID}).
		Select("name", "contact", "department", "photo", "updated_at").
		Updates(&user)
	if result.Error != nil {
		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByID(ctx, user.ID)
}

// DeleteWithRole hard-deletes the user only if it currently holds role.
func (d *UserDAO) DeleteWithRole(ctx context.Context, id, role string) error {
	result := d.db.WithContext(ctx).Where("id = ? AND role = ?", id, role).Delete(&User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	if _, err := d.FindByID(ctx, id); err != nil {
		return err
	}

	return ErrInvalidUserRole
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
