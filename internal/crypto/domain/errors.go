package domain

import (
	"github.com/saferoute/vault/internal/errors"
)

// Cryptographic operation error definitions.
//
// Encryption and decryption failures wrap ErrInternal: the key and algorithm are fixed
// for the whole process, so a failing cipher is a server fault and never a client one.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEncryptionFailed indicates the nonce source or the cipher failed while sealing.
	ErrEncryptionFailed = errors.Wrap(errors.ErrInternal, "encryption failed")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong decryption key used
	//   - Ciphertext has been tampered with (authentication failure)
	//   - Invalid nonce provided
	//   - Corrupted encrypted data
	//
	// The specific cause is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInternal, "decryption failed")

	// ErrMasterKeyNotSet indicates MASTER_KEY is empty.
	ErrMasterKeyNotSet = errors.Wrap(errors.ErrInvalidInput, "master key not set")

	// ErrInvalidMasterKeyEncoding indicates MASTER_KEY could not be decoded.
	ErrInvalidMasterKeyEncoding = errors.Wrap(errors.ErrInvalidInput, "invalid master key encoding")
)
