package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
)

// KeyEncoding describes how MASTER_KEY is written in the environment.
type KeyEncoding string

const (
	// KeyEncodingRaw means the environment value is the 32 key bytes themselves.
	KeyEncodingRaw KeyEncoding = "raw"

	// KeyEncodingBase64 means the environment value is standard base64 of the 32 key bytes.
	KeyEncodingBase64 KeyEncoding = "base64"
)

// KMSKeeper is the subset of *secrets.Keeper used to unwrap a KMS-encrypted master key.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// MasterKey holds the single symmetric key that seals every vault record.
//
// The key is fixed for the lifetime of the process. It implements slog.LogValuer and
// fmt.Stringer so that it is redacted if it ever reaches a log line.
type MasterKey struct {
	key []byte
}

// NewMasterKey copies key into a new MasterKey.
// Returns ErrInvalidKeySize unless key is exactly KeySize bytes.
func NewMasterKey(key []byte) (*MasterKey, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}
	cp := make([]byte, KeySize)
	copy(cp, key)
	return &MasterKey{key: cp}, nil
}

// ParseMasterKey decodes value according to encoding and builds a MasterKey.
// Temporary decoded bytes are zeroed before returning.
func ParseMasterKey(value string, encoding KeyEncoding) (*MasterKey, error) {
	if value == "" {
		return nil, ErrMasterKeyNotSet
	}

	switch encoding {
	case KeyEncodingRaw, "":
		raw := []byte(value)
		defer Zero(raw)
		return NewMasterKey(raw)
	case KeyEncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyEncoding, err)
		}
		defer Zero(decoded)
		return NewMasterKey(decoded)
	default:
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrInvalidMasterKeyEncoding, encoding)
	}
}

// UnwrapMasterKey decrypts a base64 KMS ciphertext with keeper and builds a MasterKey.
func UnwrapMasterKey(ctx context.Context, keeper KMSKeeper, value string) (*MasterKey, error) {
	if value == "" {
		return nil, ErrMasterKeyNotSet
	}

	ciphertext, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyEncoding, err)
	}

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt master key with KMS: %w", err)
	}
	defer Zero(plaintext)

	return NewMasterKey(plaintext)
}

// Bytes returns the key material. Callers must not retain or modify the slice.
func (m *MasterKey) Bytes() []byte {
	return m.key
}

// Close zeroes the key material. The MasterKey must not be used afterwards.
func (m *MasterKey) Close() {
	Zero(m.key)
	m.key = nil
}

// String implements fmt.Stringer without revealing the key.
func (m *MasterKey) String() string {
	return "MasterKey(REDACTED)"
}

// LogValue implements slog.LogValuer without revealing the key.
func (m *MasterKey) LogValue() slog.Value {
	return slog.StringValue("REDACTED")
}
