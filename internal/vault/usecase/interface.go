// Package usecase defines interfaces and implementations for vault use cases.
// Stores entity batches encrypted under the process master key and expires them after a fixed TTL.
package usecase

import (
	"context"

	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
)

// RecordRepository defines the interface for encrypted record storage.
type RecordRepository interface {
	Put(ctx context.Context, requestID string, record *vaultDomain.EncryptedRecord) error

	// Get returns ErrRecordNotFound for ids that were never stored and for expired ones.
	Get(ctx context.Context, requestID string) (*vaultDomain.EncryptedRecord, error)

	// DeleteExpired removes every expired record and returns the number removed.
	DeleteExpired(ctx context.Context) (int64, error)

	// Len returns the number of live records.
	Len(ctx context.Context) (int64, error)

	Clear(ctx context.Context) error
}

// VaultUseCase defines the interface for storing and retrieving entity batches.
type VaultUseCase interface {
	// Store encrypts entities and holds them under requestID for the configured TTL.
	// A later Store with the same requestID replaces the batch and resets its expiry.
	Store(ctx context.Context, requestID string, entities []vaultDomain.Entity) (*vaultDomain.StoreResult, error)

	// Retrieve returns the entities stored under requestID in their original order.
	Retrieve(ctx context.Context, requestID string) ([]vaultDomain.Entity, error)

	// Stats returns the live record count and the configured TTL.
	Stats(ctx context.Context) (*vaultDomain.Stats, error)
}

// ReaperUseCase defines the interface for purging expired records.
type ReaperUseCase interface {
	// Start sweeps on a fixed interval until ctx is cancelled.
	Start(ctx context.Context) error

	// RunOnce performs a single sweep and returns the number of records purged.
	RunOnce(ctx context.Context) (int64, error)
}
