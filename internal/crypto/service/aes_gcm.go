package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// Security properties:
//   - 256-bit key
//   - 12-byte nonce, randomly generated per encryption
//   - 16-byte authentication tag, appended to ciphertext
//
// Thread safety:
//
//	The cipher instance is stateless and safe for concurrent use from multiple
//	goroutines. Each encryption operation generates a unique nonce independently.
type AESGCMCipher struct {
	sealer
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes; any other size returns ErrInvalidKeySize. The key
// schedule is expanded immediately, so the caller may zero key afterwards.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{sealer: newSealer(aead, cryptoDomain.AESGCM)}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM.
//
// A unique 12-byte nonce is drawn from crypto/rand for each call and returned next to the
// ciphertext; it must be stored with it. The tag is appended to the ciphertext.
func (a *AESGCMCipher) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	return a.encrypt(plaintext)
}

// Decrypt verifies the tag and decrypts ciphertext. Returns ErrDecryptionFailed on a wrong
// nonce length, a wrong key, or tampered data; no plaintext is returned in that case.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	return a.decrypt(ciphertext, nonce)
}

// Algorithm returns cryptoDomain.AESGCM.
func (a *AESGCMCipher) Algorithm() cryptoDomain.Algorithm {
	return a.alg
}
