package domain

import (
	"github.com/allisson/emoticare/internal/errors"
)

// Cryptographic error definitions.
//
// These wrap the shared sentinels from internal/errors. Decryption failures never leave
// the envelope encryptor as errors (they become a failed DecryptResult); the remaining
// errors surface during startup or key wrapping.
var (
	// ErrUnsupportedAlgorithm indicates the configured AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a master or data key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrMasterKeyNotSet indicates ENCRYPTION_MASTER_KEY is empty.
	ErrMasterKeyNotSet = errors.Wrap(errors.ErrInvalidInput, "encryption master key is not set")

	// ErrInvalidMasterKey indicates the configured master key is not valid base64.
	ErrInvalidMasterKey = errors.Wrap(errors.ErrInvalidInput, "encryption master key is malformed")

	// ErrDecryptionFailed indicates a data key could not be unwrapped or content could not be opened.
	// The cause (wrong key, tampering, truncation) is deliberately not distinguished.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyVaultClosed indicates the key vault was used after Close.
	ErrKeyVaultClosed = errors.New("key vault is closed")
)
