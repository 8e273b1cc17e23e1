package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService(t *testing.T) {
	service, err := NewPasswordService()
	require.NoError(t, err)

	t.Run("Success_HashAndCompare", func(t *testing.T) {
		hash, err := service.Hash("Str0ng!Passw0rd")
		require.NoError(t, err)
		assert.NotEqual(t, "Str0ng!Passw0rd", hash)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
		assert.True(t, service.Compare("Str0ng!Passw0rd", hash))
	})

	t.Run("Success_SaltedHashesDiffer", func(t *testing.T) {
		a, err := service.Hash("same-password")
		require.NoError(t, err)
		b, err := service.Hash("same-password")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Failure_WrongPassword", func(t *testing.T) {
		hash, err := service.Hash("right-password")
		require.NoError(t, err)
		assert.False(t, service.Compare("wrong-password", hash))
		assert.False(t, service.Compare("Right-password", hash))
		assert.False(t, service.Compare("", hash))
	})

	t.Run("Failure_MalformedHash", func(t *testing.T) {
		assert.False(t, service.Compare("anything", "not-a-hash"))
		assert.False(t, service.Compare("anything", ""))
	})
}
