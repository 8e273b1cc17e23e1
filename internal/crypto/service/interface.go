// Package service provides the cryptographic services behind message envelope encryption:
// AEAD ciphers, the master key vault and the envelope encryptor built on top of them.
package service

import (
	cryptoDomain "github.com/allisson/emoticare/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length in bytes.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyWrapper wraps and unwraps data keys under the master key.
type KeyWrapper interface {
	// WrapKey seals a data key and returns nonce || sealed key.
	WrapKey(dataKey []byte) ([]byte, error)

	// UnwrapKey opens the output of WrapKey. The caller owns and must zero the result.
	UnwrapKey(wrapped []byte) ([]byte, error)
}

// EnvelopeEncryptor encrypts message plaintext with one-time data keys.
type EnvelopeEncryptor interface {
	// Encrypt seals plaintext in a new envelope. ok is false, with a nil error, when
	// plaintext is empty and there is nothing to persist.
	Encrypt(plaintext string) (envelope cryptoDomain.Envelope, ok bool, err error)

	// Decrypt opens an envelope. It never fails loudly: any problem yields a failed result.
	Decrypt(envelope cryptoDomain.Envelope) cryptoDomain.DecryptResult
}
