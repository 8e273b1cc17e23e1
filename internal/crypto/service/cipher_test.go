package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestCiphers(t *testing.T) {
	constructors := map[string]func(key []byte) (AEAD, error){
		"aes-gcm": func(key []byte) (AEAD, error) {
			return NewAESGCM(key)
		},
		"chacha20-poly1305": func(key []byte) (AEAD, error) {
			return NewChaCha20Poly1305(key)
		},
	}

	for name, newCipher := range constructors {
		t.Run(name, func(t *testing.T) {
			t.Run("Error_InvalidKeySize", func(t *testing.T) {
				for _, size := range []int{0, 16, 31, 33, 64} {
					_, err := newCipher(make([]byte, size))
					assert.Error(t, err, "size %d", size)
				}
			})

			cipher, err := newCipher(newTestKey(t))
			require.NoError(t, err)
			assert.Equal(t, 12, cipher.NonceSize())

			t.Run("Success_RoundTrip", func(t *testing.T) {
				plaintext := []byte("I have been feeling anxious lately")
				aad := []byte("context")

				ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
				require.NoError(t, err)
				assert.Len(t, nonce, 12)
				assert.Len(t, ciphertext, len(plaintext)+16)
				assert.NotContains(t, string(ciphertext), string(plaintext))

				decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
				require.NoError(t, err)
				assert.Equal(t, plaintext, decrypted)
			})

			t.Run("Success_FreshNonceEachCall", func(t *testing.T) {
				ct1, n1, err := cipher.Encrypt([]byte("same"), nil)
				require.NoError(t, err)
				ct2, n2, err := cipher.Encrypt([]byte("same"), nil)
				require.NoError(t, err)
				assert.NotEqual(t, n1, n2)
				assert.NotEqual(t, ct1, ct2)
			})

			t.Run("Error_WrongAAD", func(t *testing.T) {
				ciphertext, nonce, err := cipher.Encrypt([]byte("data"), []byte("a"))
				require.NoError(t, err)
				_, err = cipher.Decrypt(ciphertext, nonce, []byte("b"))
				assert.Error(t, err)
			})

			t.Run("Error_TamperedCiphertext", func(t *testing.T) {
				ciphertext, nonce, err := cipher.Encrypt([]byte("data"), nil)
				require.NoError(t, err)
				ciphertext[0] ^= 0xff
				_, err = cipher.Decrypt(ciphertext, nonce, nil)
				assert.Error(t, err)
			})

			t.Run("Error_InvalidNonceSize", func(t *testing.T) {
				ciphertext, _, err := cipher.Encrypt([]byte("data"), nil)
				require.NoError(t, err)
				_, err = cipher.Decrypt(ciphertext, make([]byte, 8), nil)
				assert.Error(t, err)
			})

			t.Run("Error_WrongKey", func(t *testing.T) {
				ciphertext, nonce, err := cipher.Encrypt([]byte("data"), nil)
				require.NoError(t, err)

				other, err := newCipher(newTestKey(t))
				require.NoError(t, err)
				_, err = other.Decrypt(ciphertext, nonce, nil)
				assert.Error(t, err)
			})
		})
	}
}
