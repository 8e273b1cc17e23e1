// Package dto provides request and response types for the account endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/emoticare/internal/validation"
)

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request input
}

// Validate checks the email format and password strength.
func (r *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request input
}

// Validate only checks presence. Strength rules apply at registration.
func (r *LoginRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required.Error("email is required"), appValidation.NotBlank),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
	return appValidation.WrapValidationError(err)
}

// RefreshRequest is the body of POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"` //nolint:gosec // request input
}

// Validate checks that a token was supplied.
func (r *RefreshRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required.Error("refresh_token is required"), appValidation.NotBlank),
	)
	return appValidation.WrapValidationError(err)
}
