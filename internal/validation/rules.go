// Package validation provides the request validation rules shared by the HTTP DTOs.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/emoticare/internal/errors"
)

// WrapValidationError turns a validation failure into ErrInvalidInput so handlers answer 422.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

type characterClass struct {
	code    string
	message string
	match   func(rune) bool
}

var (
	upperClass   = characterClass{"validation_password_uppercase", "an uppercase letter", unicode.IsUpper}
	lowerClass   = characterClass{"validation_password_lowercase", "a lowercase letter", unicode.IsLower}
	numberClass  = characterClass{"validation_password_number", "a number", unicode.IsNumber}
	specialClass = characterClass{"validation_password_special", "a special character", func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}}
)

// PasswordStrength requires a minimum length and, optionally, characters from each class.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate implements validation.Rule.
func (p PasswordStrength) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			fmt.Sprintf("password must be at least %d characters", p.MinLength),
		)
	}

	required := []struct {
		enabled bool
		class   characterClass
	}{
		{p.RequireUpper, upperClass},
		{p.RequireLower, lowerClass},
		{p.RequireNumber, numberClass},
		{p.RequireSpecial, specialClass},
	}
	for _, r := range required {
		if r.enabled && !strings.ContainsFunc(s, r.class.match) {
			return validation.NewError(r.class.code, "password must contain "+r.class.message)
		}
	}
	return nil
}

// Email accepts a bare address such as "someone@example.com". Display names are rejected.
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		addr, err := mail.ParseAddress(s)
		return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank rejects strings made only of whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
