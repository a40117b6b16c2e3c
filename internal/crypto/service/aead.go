package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
)

// sealer is the common Seal/Open logic shared by both cipher implementations.
// The wrapped cipher.AEAD is safe for concurrent use, so a sealer is too.
type sealer struct {
	aead   cipher.AEAD
	random io.Reader
	alg    cryptoDomain.Algorithm
}

func newSealer(aead cipher.AEAD, alg cryptoDomain.Algorithm) sealer {
	return sealer{aead: aead, random: rand.Reader, alg: alg}
}

func (s sealer) encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(s.random, nonce); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to generate nonce: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	ciphertext = s.aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

func (s sealer) decrypt(ciphertext, nonce []byte) ([]byte, error) {
	// cipher.AEAD.Open panics on a wrong nonce length.
	if len(nonce) != s.aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d",
			cryptoDomain.ErrDecryptionFailed, s.aead.NonceSize(), len(nonce))
	}
	if len(ciphertext) < s.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext shorter than tag", cryptoDomain.ErrDecryptionFailed)
	}

	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
