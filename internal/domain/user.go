package domain

import "time"

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleFaculty     Role = "faculty"
	RoleCoordinator Role = "coordinator"
	RoleStudent     Role = "student"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleCoordinator, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Password   string `json:"-"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Contact    string `json:"contact,omitempty"`
	Department string `json:"department,omitempty"`
	Photo      string `json:"photo,omitempty"`
	// AssignedClubID is only set for coordinators.
	AssignedClubID string    `json:"assigned_club,omitempty"`
	CreatedByID    string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfilePatch holds the profile fields a user may change on their own
// account. Nil fields are left untouched.
type ProfilePatch struct {
	Name       *string
	Contact    *string
	Department *string
	Photo      *string
}

func (u *User) Apply(p ProfilePatch) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Contact != nil {
		u.Contact = *p.Contact
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Photo != nil {
		u.Photo = *p.Photo
	}
}
