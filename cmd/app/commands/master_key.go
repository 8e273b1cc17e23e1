package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/emoticare/internal/crypto/domain"
	cryptoService "github.com/allisson/emoticare/internal/crypto/service"
)

// RunCreateMasterKey generates a random 32-byte master key and prints it as environment variables.
//
// Without kmsKeyURI the key is printed as plain base64. With it the key is sealed by the KMS
// key first and the ciphertext is printed together with the URI needed to open it again.
// The raw key is zeroed before returning.
func RunCreateMasterKey(
	ctx context.Context,
	kms cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider string,
	kmsKeyURI string,
) error {
	if kmsKeyURI != "" && kmsProvider == "" {
		return fmt.Errorf("--kms-provider is required when --kms-key-uri is set")
	}

	masterKey := make([]byte, cryptoDomain.KeySize)
	defer cryptoDomain.Zero(masterKey)

	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}

	if kmsKeyURI == "" {
		logger.Warn("master key printed in plaintext, prefer a KMS key in production")
		_, err := fmt.Fprintf(
			writer,
			"# Copy this variable to your .env file or secrets manager\nENCRYPTION_MASTER_KEY=\"%s\"\n",
			base64.StdEncoding.EncodeToString(masterKey),
		)
		return err
	}

	encoded, err := cryptoService.EncryptMasterKey(ctx, masterKey, kmsKeyURI, kms)
	if err != nil {
		return fmt.Errorf("failed to seal master key: %w", err)
	}

	logger.Info("master key sealed with KMS", slog.String("kms_provider", kmsProvider))

	_, err = fmt.Fprintf(
		writer,
		"# Copy these variables to your .env file or secrets manager\nKMS_PROVIDER=\"%s\"\nKMS_KEY_URI=\"%s\"\nENCRYPTION_MASTER_KEY=\"%s\"\n",
		kmsProvider,
		kmsKeyURI,
		encoded,
	)
	return err
}
