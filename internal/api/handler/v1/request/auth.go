package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/campus-events-api/internal/domain"
)

const (
	passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`
)

var passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)

var (
	errInvalidPassword         = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
	errConfirmPasswordMismatch = errors.New("confirm password doesn't match the password")
)

func validatePassword(password string) error {
	ok, err := passwordExp.MatchString(password)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidPassword
	}

	return nil
}

type SignupRequest struct {
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Contact         string `json:"contact,omitempty"`
	Department      string `json:"department,omitempty"`
}

func (req *SignupRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.ConfirmPassword, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Contact, validation.Length(0, 30)),
		validation.Field(&req.Department, validation.Length(0, 100)),
	)
	if err != nil {
		return err
	}

	if err = validatePassword(req.Password); err != nil {
		return err
	}

	if req.Password != req.ConfirmPassword {
		return errConfirmPasswordMismatch
	}

	return nil
}

func (req *SignupRequest) ToDomain() domain.User {
	return domain.User{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Contact:    req.Contact,
		Department: req.Department,
	}
}

type RegisterFacultyRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Contact    string `json:"contact,omitempty"`
	Department string `json:"department,omitempty"`
}

func (req *RegisterFacultyRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Contact, validation.Length(0, 30)),
		validation.Field(&req.Department, validation.Length(0, 100)),
	)
	if err != nil {
		return err
	}

	return validatePassword(req.Password)
}

func (req *RegisterFacultyRequest) ToDomain() domain.User {
	return domain.User{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Contact:    req.Contact,
		Department: req.Department,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}
