package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

type CreateClubRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (req *CreateClubRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Image, is.URL),
	)
}

func (req *CreateClubRequest) ToDomain() domain.Club {
	return domain.Club{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	}
}

type AssignCoordinatorRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}
