package request

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

// RegisterValidators adds the hhmm and eventdate tags to gin's binding
// validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}

	if err := v.RegisterValidation("hhmm", isHHMM); err != nil {
		return err
	}

	return v.RegisterValidation("eventdate", isEventDate)
}

func isHHMM(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len(domain.TimeLayout) {
		return false
	}
	_, err := time.Parse(domain.TimeLayout, s)
	return err == nil
}

func isEventDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len(domain.DateLayout) {
		return false
	}
	_, err := domain.ParseEventDate(s)
	return err == nil
}
