// Package domain defines the vault's core types: the entities a proxy substitutes with
// tokens, the encrypted record that holds a batch of them, and the vault's errors.
package domain

import (
	"time"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
)

// Entity is one piece of sensitive data and the token that replaced it.
type Entity struct {
	// Original is the sensitive value (e.g. an email address).
	Original string `json:"original" cbor:"1,keyasint"`
	// Token is the placeholder substituted for Original in outbound traffic (e.g. "[EMAIL_1]").
	Token string `json:"token" cbor:"2,keyasint"`
	// Type is the entity class reported by the detector (e.g. "EMAIL").
	Type string `json:"type" cbor:"3,keyasint"`
	// Position is the offset of Original in the source text.
	Position uint `json:"position" cbor:"4,keyasint"`
}

// EncryptedRecord is a sealed batch of entities as held by the record repository.
// It never leaves the vault.
type EncryptedRecord struct {
	// Ciphertext is the encoded entity batch with the AEAD tag appended.
	Ciphertext []byte
	// Nonce is the 12-byte nonce drawn for this encryption.
	Nonce []byte
	// Algorithm is the AEAD that sealed Ciphertext.
	Algorithm cryptoDomain.Algorithm
	// CreatedAt is when the record was stored.
	CreatedAt time.Time
	// TTL is how long the record stays retrievable after CreatedAt.
	TTL time.Duration
}

// ExpiresAt returns the instant after which the record is no longer live.
func (r *EncryptedRecord) ExpiresAt() time.Time {
	return r.CreatedAt.Add(r.TTL)
}

// IsLive reports whether now - CreatedAt < TTL.
func (r *EncryptedRecord) IsLive(now time.Time) bool {
	return now.Sub(r.CreatedAt) < r.TTL
}

// StoreResult describes a successful store.
type StoreResult struct {
	RequestID   string
	EntityCount int
	ExpiresAt   time.Time
}

// Stats is a snapshot of the vault for the status endpoint.
type Stats struct {
	EntriesStored int64
	TTL           time.Duration
}
