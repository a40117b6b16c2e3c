package service

import (
	"fmt"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
)

// Encrypt seals plaintext under key with AES-256-GCM, for callers holding a raw key.
// Returns ErrInvalidKeySize if key is not 32 bytes and ErrEncryptionFailed on cipher failure.
func Encrypt(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	aead, err := NewAESGCM(key)
	if err != nil {
		return nil, nil, err
	}
	return aead.Encrypt(plaintext)
}

// Decrypt opens an AES-256-GCM ciphertext produced by Encrypt.
// Every failure, including a malformed key, is reported as ErrDecryptionFailed.
func Decrypt(key, ciphertext, nonce []byte) ([]byte, error) {
	aead, err := NewAESGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return aead.Decrypt(ciphertext, nonce)
}
