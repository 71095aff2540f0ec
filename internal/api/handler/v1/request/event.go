package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

type EventImageRequest struct {
	URL         string `json:"url" binding:"required"`
	Description string `json:"description"`
}

func (req EventImageRequest) Validate() error {
	return validation.ValidateStruct(
		&req,
		validation.Field(&req.URL, validation.Required, is.URL),
		validation.Field(&req.Description, validation.Length(0, 200)),
	)
}

func toDomainImages(images []EventImageRequest) []domain.EventImage {
	out := make([]domain.EventImage, 0, len(images))
	for _, img := range images {
		out = append(out, domain.EventImage{URL: img.URL, Description: img.Description})
	}
	return out
}

type CreateEventRequest struct {
	Name             string              `json:"name" binding:"required"`
	Description      string              `json:"description"`
	Date             string              `json:"date" binding:"required,eventdate" example:"2026-03-10"`
	Time             string              `json:"time" binding:"required,hhmm" example:"18:30"`
	Venue            string              `json:"venue" binding:"required"`
	Address          string              `json:"address"`
	ContactEmail     string              `json:"contact_email"`
	Image            string              `json:"image"`
	AdditionalImages []EventImageRequest `json:"additional_images" binding:"omitempty,dive"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Venue, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 5000)),
		validation.Field(&req.ContactEmail, is.Email),
		validation.Field(&req.Image, is.URL),
		validation.Field(&req.AdditionalImages, validation.Length(0, domain.MaxAdditionalImages)),
	)
}

func (req *CreateEventRequest) ToDomain() (domain.Event, error) {
	date, err := domain.ParseEventDate(req.Date)
	if err != nil {
		return domain.Event{}, fmt.Errorf("date: %w", err)
	}

	return domain.Event{
		Name:             req.Name,
		Description:      req.Description,
		Date:             date,
		Time:             req.Time,
		Venue:            req.Venue,
		Address:          req.Address,
		ContactEmail:     req.ContactEmail,
		Image:            req.Image,
		AdditionalImages: toDomainImages(req.AdditionalImages),
	}, nil
}

// UpdateEventRequest overwrites only the fields present in the body.
type UpdateEventRequest struct {
	Name             *string              `json:"name,omitempty"`
	Description      *string              `json:"description,omitempty"`
	Date             *string              `json:"date,omitempty" binding:"omitempty,eventdate" example:"2026-03-10"`
	Time             *string              `json:"time,omitempty" binding:"omitempty,hhmm" example:"18:30"`
	Venue            *string              `json:"venue,omitempty"`
	Address          *string              `json:"address,omitempty"`
	ContactEmail     *string              `json:"contact_email,omitempty"`
	Image            *string              `json:"image,omitempty"`
	AdditionalImages *[]EventImageRequest `json:"additional_images,omitempty" binding:"omitempty,dive"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Venue, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.NilOrNotEmpty),
		validation.Field(&req.Time, validation.NilOrNotEmpty),
		validation.Field(&req.Description, validation.Length(0, 5000)),
		validation.Field(&req.ContactEmail, is.Email),
		validation.Field(&req.Image, is.URL),
		validation.Field(&req.AdditionalImages, validation.Length(0, domain.MaxAdditionalImages)),
	)
}

func (req *UpdateEventRequest) ToPatch() (domain.EventPatch, error) {
	patch := domain.EventPatch{
		Name:         req.Name,
		Description:  req.Description,
		Time:         req.Time,
		Venue:        req.Venue,
		Address:      req.Address,
		ContactEmail: req.ContactEmail,
		Image:        req.Image,
	}

	if req.Date != nil {
		date, err := domain.ParseEventDate(*req.Date)
		if err != nil {
			return domain.EventPatch{}, fmt.Errorf("date: %w", err)
		}
		patch.Date = &date
	}

	if req.AdditionalImages != nil {
		images := toDomainImages(*req.AdditionalImages)
		patch.AdditionalImages = &images
	}

	return patch, nil
}

// VerifyEventRequest decides a pending event. Status defaults to approved;
// any descriptive field present overwrites the stored value.
type VerifyEventRequest struct {
	UpdateEventRequest
	Status string `json:"status,omitempty" enums:"approved,rejected"`
}

func (req *VerifyEventRequest) Validate() error {
	if err := req.UpdateEventRequest.Validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.In(string(domain.StatusApproved), string(domain.StatusRejected))),
	)
}

func (req *VerifyEventRequest) TargetStatus() domain.EventStatus {
	if req.Status == "" {
		return domain.StatusApproved
	}
	return domain.EventStatus(req.Status)
}

type MarkAttendanceRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	Status    string `json:"status" binding:"required,oneof=present absent"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" example:"5"`
	Comment string `json:"comment"`
}

func (req *FeedbackRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Comment, validation.Length(0, 2000)),
	)
}
