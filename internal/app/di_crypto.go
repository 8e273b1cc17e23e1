package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/emoticare/internal/crypto/domain"
	cryptoService "github.com/allisson/emoticare/internal/crypto/service"
)

// KMSService returns the KMS service used to open a KMS-sealed master key.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyVault returns the vault holding the master key. Loading fails fast when the key is
// missing or malformed.
func (c *Container) KeyVault() (*cryptoService.KeyVault, error) {
	var err error
	c.keyVaultInit.Do(func() {
		c.keyVault, err = c.initKeyVault()
		if err != nil {
			c.initErrors["keyVault"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyVault"]; exists {
		return nil, storedErr
	}
	return c.keyVault, nil
}

// EnvelopeEncryptor returns the per-message envelope encryptor.
func (c *Container) EnvelopeEncryptor() (cryptoService.EnvelopeEncryptor, error) {
	var err error
	c.encryptorInit.Do(func() {
		c.encryptor, err = c.initEnvelopeEncryptor()
		if err != nil {
			c.initErrors["encryptor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptor"]; exists {
		return nil, storedErr
	}
	return c.encryptor, nil
}

func (c *Container) algorithm() (cryptoDomain.Algorithm, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return "", fmt.Errorf("invalid ENCRYPTION_ALGORITHM: %w", err)
	}
	return alg, nil
}

func (c *Container) initKeyVault() (*cryptoService.KeyVault, error) {
	alg, err := c.algorithm()
	if err != nil {
		return nil, err
	}

	key, err := cryptoService.LoadMasterKey(
		context.Background(),
		c.config.EncryptionMasterKey,
		c.config.KMSKeyURI,
		c.KMSService(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}

	vault, err := cryptoService.NewKeyVault(key, alg, cryptoService.NewAEADManager())
	if err != nil {
		return nil, fmt.Errorf("failed to create key vault: %w", err)
	}
	return vault, nil
}

func (c *Container) initEnvelopeEncryptor() (cryptoService.EnvelopeEncryptor, error) {
	alg, err := c.algorithm()
	if err != nil {
		return nil, err
	}
	vault, err := c.KeyVault()
	if err != nil {
		return nil, err
	}
	return cryptoService.NewEnvelopeEncryptor(vault, cryptoService.NewAEADManager(), alg), nil
}
