package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/emoticare/internal/errors"
)

func TestPasswordStrength(t *testing.T) {
	strict := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name     string
		rule     PasswordStrength
		password any
		wantErr  string
	}{
		{name: "valid", rule: strict, password: "Correct-Horse-42!"},
		{name: "too short", rule: strict, password: "Ab1!", wantErr: "at least 8 characters"},
		{name: "missing uppercase", rule: strict, password: "correct-horse-42!", wantErr: "uppercase letter"},
		{name: "missing lowercase", rule: strict, password: "CORRECT-HORSE-42!", wantErr: "lowercase letter"},
		{name: "missing number", rule: strict, password: "Correct-Horse!", wantErr: "a number"},
		{name: "missing special", rule: strict, password: "CorrectHorse42", wantErr: "special character"},
		{name: "devanagari digits count as numbers", rule: strict, password: "Correct-Horse-४२"},
		{name: "length only", rule: PasswordStrength{MinLength: 4}, password: "aaaa"},
		{name: "not a string", rule: strict, password: 42, wantErr: "must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEmail(t *testing.T) {
	for _, email := range []string{"someone@example.com", "first.last+tag@mail.example.org"} {
		assert.NoError(t, Email.Validate(email), email)
	}
	for _, email := range []string{"plain", "someone@", "@example.com", "someone@localhost", "Someone <someone@example.com>"} {
		assert.Error(t, Email.Validate(email), email)
	}
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("hello"))
	assert.NoError(t, NotBlank.Validate(""), "empty values are left to Required")
	assert.Error(t, NotBlank.Validate("   \t\n"))
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(errors.New("email: must be a valid email address."))
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "must be a valid email address")
}
