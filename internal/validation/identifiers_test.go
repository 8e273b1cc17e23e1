package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUUID(t *testing.T) {
	assert.NoError(t, UUID.Validate(uuid.Must(uuid.NewV7()).String()))
	assert.NoError(t, UUID.Validate(""), "empty values are left to Required")
	assert.Error(t, UUID.Validate("not-a-uuid"))
	assert.Error(t, UUID.Validate("12345"))
}

func TestLanguageTag(t *testing.T) {
	for _, tag := range []string{"", "en", "hi", "hi-IN", "HI-in", "en-US"} {
		assert.NoError(t, LanguageTag.Validate(tag), tag)
	}
	for _, tag := range []string{"fr", "english", "hi_IN"} {
		assert.Error(t, LanguageTag.Validate(tag), tag)
	}
}
