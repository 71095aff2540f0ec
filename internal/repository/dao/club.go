package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrClubNotFound       = errors.New("club not found")
	ErrAlreadyCoordinator = errors.New("user is already a coordinator")
	ErrNotClubCoordinator = errors.New("user is not a coordinator of this club")
)

type Club struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	Name         string `gorm:"not null"`
	Description  string
	Image        string
	CreatedByID  string `gorm:"type:uuid;not null"`
	Coordinators []User `gorm:"many2many:club_coordinators;"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ClubDAO struct {
	db *gorm.DB
}

func NewClubDAO(db *gorm.DB) *ClubDAO {
	return &ClubDAO{
		db: db,
	}
}

func (d *ClubDAO) Insert(ctx context.Context, club Club) (Club, error) {
	if club.ID == "" {
		club.ID = uuid.NewString()
	}
	club.Coordinators = nil

	if err := d.db.WithContext(ctx).Create(&club).Error; err != nil {
		return Club{}, err
	}

	return club, nil
}

func (d *ClubDAO) FindByID(ctx context.Context, id string) (Club, error) {
	var club Club

	result := d.db.WithContext(ctx).Preload("Coordinators").First(&club, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Club{}, ErrClubNotFound
		}

		return Club{}, result.Error
	}

	return club, nil
}

func (d *ClubDAO) FindAll(ctx context.Context) ([]Club, error) {
	var clubs []Club

	result := d.db.WithContext(ctx).Preload("Coordinators").Order("created_at").Find(&clubs)
	if result.Error != nil {
		return nil, result.Error
	}

	return clubs, nil
}

// AssignCoordinator promotes a student to coordinator of the club and adds
// them to the club's coordinator set in one transaction.
func (d *ClubDAO) AssignCoordinator(ctx context.Context, clubID, userID string) (Club, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var club Club
		if err := tx.First(&club, "id = ?", clubID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClubNotFound
			}
			return err
		}

		var user User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		switch user.Role {
		case RoleStudent:
		case RoleCoordinator:
			return ErrAlreadyCoordinator
		default:
			return ErrInvalidUserRole
		}

		if err := tx.Model(&user).Updates(map[string]any{
			"role":             RoleCoordinator,
			"assigned_club_id": clubID,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&club).Association("Coordinators").Append(&user)
	})
	if err != nil {
		return Club{}, err
	}

	return d.FindByID(ctx, clubID)
}

// RemoveCoordinator demotes the coordinator back to student and removes them
// from the club's coordinator set in one transaction.
func (d *ClubDAO) RemoveCoordinator(ctx context.Context, clubID, userID string) (Club, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var club Club
		if err := tx.First(&club, "id = ?", clubID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClubNotFound
			}
			return err
		}

		var user User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if user.Role != RoleCoordinator || user.AssignedClubID == nil || *user.AssignedClubID != clubID {
			return ErrNotClubCoordinator
		}

		if err := tx.Model(&user).Updates(map[string]any{
			"role":             RoleStudent,
			"assigned_club_id": nil,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&club).Association("Coordinators").Delete(&user)
	})
	if err != nil {
		return Club{}, err
	}

	return d.FindByID(ctx, clubID)
}
