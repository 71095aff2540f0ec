package domain

import "time"

type Club struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Image        string    `json:"image,omitempty"`
	CreatedByID  string    `json:"created_by"`
	Coordinators []User    `json:"coordinators"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c Club) HasCoordinator(userID string) bool {
	for _, u := range c.Coordinators {
		if u.ID == userID {
			return true
		}
	}
	return false
}
