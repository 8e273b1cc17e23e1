package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/emoticare/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens KMS keepers and resolves the master key through them.
type KMSService interface {
	// OpenKeeper opens a keeper for the KMS key identified by keyURI.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the KMS key.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// LoadMasterKey resolves the configured master key into its 32 raw bytes.
//
// Without a KMS key URI, encoded is the base64 master key itself. With one, encoded is
// the base64 KMS ciphertext of the master key and is decrypted through the keeper first.
func LoadMasterKey(ctx context.Context, encoded, kmsKeyURI string, kms KMSService) ([]byte, error) {
	if kmsKeyURI == "" {
		return cryptoDomain.ParseMasterKey(encoded)
	}

	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, cryptoDomain.ErrMasterKeyNotSet
	}

	ciphertext, err := cryptoDomain.DecodeBase64(encoded)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidMasterKey
	}

	keeper, err := kms.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt master key with KMS: %w", err)
	}

	if len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	return key, nil
}

// EncryptMasterKey seals a raw master key with the KMS key and returns the base64 ciphertext
// suitable for ENCRYPTION_MASTER_KEY.
func EncryptMasterKey(ctx context.Context, key []byte, kmsKeyURI string, kms KMSService) (string, error) {
	keeper, err := kms.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
