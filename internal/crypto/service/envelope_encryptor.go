package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/emoticare/internal/crypto/domain"
)

var contentAAD = []byte("emoticare/message")

// EnvelopeEncryptorService seals every message under its own random data key and
// stores that key wrapped by the master key beside the ciphertext.
type EnvelopeEncryptorService struct {
	keys        KeyWrapper
	aeadManager AEADManager
	alg         cryptoDomain.Algorithm
}

// NewEnvelopeEncryptor creates an envelope encryptor backed by keys.
func NewEnvelopeEncryptor(
	keys KeyWrapper,
	aeadManager AEADManager,
	alg cryptoDomain.Algorithm,
) *EnvelopeEncryptorService {
	return &EnvelopeEncryptorService{keys: keys, aeadManager: aeadManager, alg: alg}
}

// Encrypt seals plaintext with a fresh data key. Empty plaintext produces no envelope.
func (e *EnvelopeEncryptorService) Encrypt(plaintext string) (cryptoDomain.Envelope, bool, error) {
	if plaintext == "" {
		return cryptoDomain.Envelope{}, false, nil
	}

	dataKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(dataKey); err != nil {
		return cryptoDomain.Envelope{}, false, fmt.Errorf("failed to generate data key: %w", err)
	}
	defer cryptoDomain.Zero(dataKey)

	cipher, err := e.aeadManager.CreateCipher(dataKey, e.alg)
	if err != nil {
		return cryptoDomain.Envelope{}, false, err
	}

	ciphertext, nonce, err := cipher.Encrypt([]byte(plaintext), contentAAD)
	if err != nil {
		return cryptoDomain.Envelope{}, false, err
	}

	wrapped, err := e.keys.WrapKey(dataKey)
	if err != nil {
		return cryptoDomain.Envelope{}, false, fmt.Errorf("failed to wrap data key: %w", err)
	}

	return cryptoDomain.Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)),
		WrappedKey: base64.StdEncoding.EncodeToString(wrapped),
	}, true, nil
}

// Decrypt opens an envelope produced by Encrypt. Malformed encodings, keys that fail to
// unwrap and tampered content all produce a failed result.
func (e *EnvelopeEncryptorService) Decrypt(envelope cryptoDomain.Envelope) cryptoDomain.DecryptResult {
	wrapped, err := base64.StdEncoding.DecodeString(envelope.WrappedKey)
	if err != nil {
		return cryptoDomain.DecryptFailed()
	}
	sealed, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return cryptoDomain.DecryptFailed()
	}

	dataKey, err := e.keys.UnwrapKey(wrapped)
	if err != nil {
		return cryptoDomain.DecryptFailed()
	}
	defer cryptoDomain.Zero(dataKey)

	cipher, err := e.aeadManager.CreateCipher(dataKey, e.alg)
	if err != nil {
		return cryptoDomain.DecryptFailed()
	}

	nonceSize := cipher.NonceSize()
	if len(sealed) <= nonceSize {
		return cryptoDomain.DecryptFailed()
	}

	plaintext, err := cipher.Decrypt(sealed[nonceSize:], sealed[:nonceSize], contentAAD)
	if err != nil {
		return cryptoDomain.DecryptFailed()
	}
	return cryptoDomain.Decrypted(string(plaintext))
}
