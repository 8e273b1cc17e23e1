package domain

// FailureSentinel is the text shown in place of a message that could not be decrypted.
// It is a display marker, never plaintext: code that needs to know whether decryption
// worked must inspect DecryptResult.Ok instead of comparing strings.
const FailureSentinel = "[Decryption Failed]"

// Envelope is the persisted form of one encrypted message.
//
// Ciphertext is base64(nonce || AEAD(dataKey, plaintext)) and WrappedKey is
// base64(nonce || AEAD(masterKey, dataKey)). The two fields map to the
// content_encrypted and key_encrypted columns.
type Envelope struct {
	Ciphertext string
	WrappedKey string
}

// DecryptResult is the outcome of opening an Envelope: either the plaintext or a failure.
type DecryptResult struct {
	plaintext string
	ok        bool
}

// Decrypted builds a successful DecryptResult.
func Decrypted(plaintext string) DecryptResult {
	return DecryptResult{plaintext: plaintext, ok: true}
}

// DecryptFailed builds a failed DecryptResult.
func DecryptFailed() DecryptResult {
	return DecryptResult{}
}

// Ok reports whether decryption succeeded.
func (r DecryptResult) Ok() bool {
	return r.ok
}

// Plaintext returns the decrypted text and whether it is valid.
func (r DecryptResult) Plaintext() (string, bool) {
	return r.plaintext, r.ok
}

// String returns the plaintext, or FailureSentinel when decryption failed.
func (r DecryptResult) String() string {
	if !r.ok {
		return FailureSentinel
	}
	return r.plaintext
}
