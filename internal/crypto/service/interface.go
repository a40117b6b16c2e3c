// Package service implements the vault's crypto engine: AEAD ciphers (AES-256-GCM,
// ChaCha20-Poly1305) under the process-wide master key, and KMS access for unwrapping it.
package service

import (
	"context"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
)

// AEAD defines the interface for authenticated encryption without associated data.
type AEAD interface {
	// Encrypt seals plaintext under a fresh random nonce and returns ciphertext (tag appended) and nonce.
	Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext with nonce. Any mismatch returns ErrDecryptionFailed.
	Decrypt(ciphertext, nonce []byte) ([]byte, error)

	// Algorithm reports which cipher this instance uses.
	Algorithm() cryptoDomain.Algorithm
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KMSService opens gocloud.dev keepers used to wrap and unwrap the master key.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
