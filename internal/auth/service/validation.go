package service

import (
	"github.com/go-playground/validator/v10"

	commonerrors "github.com/dcastellanos/userboard/internal/common/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type registrationPayload struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type loginPayload struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

func validateRegistration(input RegisterInput) error {
	payload := registrationPayload{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	}
	if err := validate.Struct(payload); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			if fieldErr.Tag() == "email" {
				return commonerrors.ErrInvalidEmail
			}
		}
		return commonerrors.ErrMissingFields
	}
	return nil
}

// Login only checks presence; the shape of the email is irrelevant to a
// lookup that either matches a stored row or does not.
func validateLogin(input LoginInput) error {
	payload := loginPayload{
		Email:    input.Email,
		Password: input.Password,
	}
	if err := validate.Struct(payload); err != nil {
		return commonerrors.ErrMissingFields
	}
	return nil
}
