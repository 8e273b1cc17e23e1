package validation

import (
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
)

// UUID validates that a non-empty string is a canonical UUID.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// LanguageTag validates an optional language tag. Empty means "detect from text".
var LanguageTag = validation.NewStringRuleWithError(
	func(s string) bool {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "en", "en-us", "en-gb", "en-in", "hi", "hi-in":
			return true
		}
		return false
	},
	validation.NewError("validation_language", "must be one of en, hi, hi-IN"),
)
