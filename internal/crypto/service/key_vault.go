package service

import (
	"sync"

	"github.com/awnumar/memguard"

	cryptoDomain "github.com/allisson/emoticare/internal/crypto/domain"
)

var wrapAAD = []byte("emoticare/data-key")

// KeyVault holds the master key in guarded memory and wraps data keys with it.
//
// The master key lives in a memguard LockedBuffer: locked into RAM, guarded by canary
// pages and made read-only after load. Each operation derives a short-lived cipher from
// it and never copies the key out.
type KeyVault struct {
	mu          sync.RWMutex
	key         *memguard.LockedBuffer
	alg         cryptoDomain.Algorithm
	aeadManager AEADManager
}

// NewKeyVault moves masterKey into guarded memory. masterKey is wiped on return,
// whether or not the call succeeds.
func NewKeyVault(masterKey []byte, alg cryptoDomain.Algorithm, aeadManager AEADManager) (*KeyVault, error) {
	if len(masterKey) != cryptoDomain.KeySize {
		cryptoDomain.Zero(masterKey)
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if _, err := cryptoDomain.ParseAlgorithm(string(alg)); err != nil {
		cryptoDomain.Zero(masterKey)
		return nil, err
	}

	key := memguard.NewBufferFromBytes(masterKey)
	key.Freeze()

	return &KeyVault{key: key, alg: alg, aeadManager: aeadManager}, nil
}

// WrapKey seals dataKey under the master key and returns nonce || sealed key.
func (v *KeyVault) WrapKey(dataKey []byte) ([]byte, error) {
	cipher, err := v.cipher()
	if err != nil {
		return nil, err
	}

	sealed, nonce, err := cipher.Encrypt(dataKey, wrapAAD)
	if err != nil {
		return nil, err
	}
	return append(nonce, sealed...), nil
}

// UnwrapKey opens the output of WrapKey. Any failure is reported as ErrDecryptionFailed.
func (v *KeyVault) UnwrapKey(wrapped []byte) ([]byte, error) {
	cipher, err := v.cipher()
	if err != nil {
		return nil, err
	}

	nonceSize := cipher.NonceSize()
	if len(wrapped) <= nonceSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	dataKey, err := cipher.Decrypt(wrapped[nonceSize:], wrapped[:nonceSize], wrapAAD)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	if len(dataKey) != cryptoDomain.KeySize {
		cryptoDomain.Zero(dataKey)
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return dataKey, nil
}

// Close destroys the guarded master key. Later calls fail with ErrKeyVaultClosed.
func (v *KeyVault) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key != nil {
		v.key.Destroy()
	}
}

func (v *KeyVault) cipher() (AEAD, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.key == nil || !v.key.IsAlive() {
		return nil, cryptoDomain.ErrKeyVaultClosed
	}
	return v.aeadManager.CreateCipher(v.key.Bytes(), v.alg)
}
