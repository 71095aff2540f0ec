package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

// UpdateProfileRequest changes only the fields present in the body.
type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Contact    *string `json:"contact,omitempty"`
	Department *string `json:"department,omitempty"`
	Photo      *string `json:"photo,omitempty"`
}

func (req *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Contact, validation.Length(0, 30)),
		validation.Field(&req.Department, validation.Length(0, 100)),
		validation.Field(&req.Photo, is.URL),
	)
}

func (req *UpdateProfileRequest) ToPatch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Name:       req.Name,
		Contact:    req.Contact,
		Department: req.Department,
		Photo:      req.Photo,
	}
}
