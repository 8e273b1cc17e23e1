package domain

// Algorithm represents the AEAD algorithm used to seal message content and wrap data keys.
//
// Both supported algorithms use 256-bit keys, 12-byte nonces and 16-byte tags, so an
// envelope produced under one algorithm has the same shape as one produced under the other.
// The algorithm itself is not recorded in the envelope; a deployment picks one with
// ENCRYPTION_ALGORITHM and keeps it.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred on hardware without AES acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of the master key and of every data key.
	KeySize = 32

	// NonceSize is the nonce size in bytes shared by both supported algorithms.
	NonceSize = 12
)

// ParseAlgorithm converts a configuration value into an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
