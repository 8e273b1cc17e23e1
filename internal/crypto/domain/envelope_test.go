package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecryptResult(t *testing.T) {
	t.Run("Decrypted", func(t *testing.T) {
		r := Decrypted("hello")
		assert.True(t, r.Ok())
		p, ok := r.Plaintext()
		assert.True(t, ok)
		assert.Equal(t, "hello", p)
		assert.Equal(t, "hello", r.String())
	})

	t.Run("DecryptedSentinelTextIsStillPlaintext", func(t *testing.T) {
		r := Decrypted(FailureSentinel)
		assert.True(t, r.Ok())
	})

	t.Run("DecryptFailed", func(t *testing.T) {
		r := DecryptFailed()
		assert.False(t, r.Ok())
		p, ok := r.Plaintext()
		assert.False(t, ok)
		assert.Empty(t, p)
		assert.Equal(t, FailureSentinel, r.String())
	})
}
