package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseMasterKey decodes a base64 master key. Standard and URL-safe alphabets are both
// accepted, padded or not, so keys generated by other tooling (e.g. Fernet-style keys)
// load unchanged. The decoded key must be exactly KeySize bytes.
func ParseMasterKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrMasterKeyNotSet
	}

	key, err := DecodeBase64(encoded)
	if err != nil {
		return nil, ErrInvalidMasterKey
	}

	if len(key) != KeySize {
		Zero(key)
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}

	return key, nil
}

// DecodeBase64 decodes s trying the standard alphabet first and then the URL-safe one.
func DecodeBase64(s string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	}

	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
