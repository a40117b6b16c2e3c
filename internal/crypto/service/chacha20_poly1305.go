package service

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305.
//
// It is particularly efficient on platforms without hardware AES acceleration.
type ChaCha20Poly1305Cipher struct {
	sealer
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher instance.
// Returns ErrInvalidKeySize if the key is not 32 bytes.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{sealer: newSealer(aead, cryptoDomain.ChaCha20)}, nil
}

// Encrypt seals plaintext under a fresh 12-byte nonce. The Poly1305 tag is appended.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	return c.encrypt(plaintext)
}

// Decrypt verifies the Poly1305 tag and returns the plaintext.
func (c *ChaCha20Poly1305Cipher) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	return c.decrypt(ciphertext, nonce)
}

// Algorithm returns cryptoDomain.ChaCha20.
func (c *ChaCha20Poly1305Cipher) Algorithm() cryptoDomain.Algorithm {
	return c.alg
}
