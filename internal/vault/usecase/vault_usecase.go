package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cryptoService "github.com/saferoute/vault/internal/crypto/service"
	apperrors "github.com/saferoute/vault/internal/errors"
	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
	vaultService "github.com/saferoute/vault/internal/vault/service"
)

// Config holds vault use case configuration
type Config struct {
	// TTL is how long a stored batch stays retrievable.
	TTL time.Duration
	// Now overrides time.Now. Optional.
	Now func() time.Time
}

// vaultUseCase implements VaultUseCase over a RecordRepository and a single AEAD.
type vaultUseCase struct {
	ttl    time.Duration
	now    func() time.Time
	repo   RecordRepository
	cipher cryptoService.AEAD
	codec  vaultService.EntityCodec
	logger *slog.Logger
}

// NewVaultUseCase creates a new VaultUseCase.
func NewVaultUseCase(
	config Config,
	repo RecordRepository,
	cipher cryptoService.AEAD,
	codec vaultService.EntityCodec,
	logger *slog.Logger,
) VaultUseCase {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &vaultUseCase{
		ttl:    config.TTL,
		now:    now,
		repo:   repo,
		cipher: cipher,
		codec:  codec,
		logger: logger,
	}
}

// Store encodes and encrypts the batch before the single repository insert, so a failure
// leaves no partial state behind.
func (v *vaultUseCase) Store(
	ctx context.Context,
	requestID string,
	entities []vaultDomain.Entity,
) (*vaultDomain.StoreResult, error) {
	if requestID == "" {
		return nil, vaultDomain.ErrInvalidRequestID
	}

	plaintext, err := v.codec.Encode(entities)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := v.cipher.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	record := &vaultDomain.EncryptedRecord{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Algorithm:  v.cipher.Algorithm(),
		CreatedAt:  v.now(),
		TTL:        v.ttl,
	}

	if err := v.repo.Put(ctx, requestID, record); err != nil {
		return nil, apperrors.Wrap(err, "failed to store record")
	}

	v.logger.Debug("stored entities",
		slog.String("request_id", requestID),
		slog.Int("entity_count", len(entities)),
	)

	return &vaultDomain.StoreResult{
		RequestID:   requestID,
		EntityCount: len(entities),
		ExpiresAt:   record.ExpiresAt(),
	}, nil
}

// Retrieve reports decrypt and decode failures as ErrRecordCorrupted. Not found is routine
// and is not logged here.
func (v *vaultUseCase) Retrieve(ctx context.Context, requestID string) ([]vaultDomain.Entity, error) {
	if requestID == "" {
		return nil, vaultDomain.ErrInvalidRequestID
	}

	record, err := v.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if record.Algorithm != v.cipher.Algorithm() {
		return nil, v.corrupted(requestID, fmt.Errorf("record sealed with %s", record.Algorithm))
	}

	plaintext, err := v.cipher.Decrypt(record.Ciphertext, record.Nonce)
	if err != nil {
		return nil, v.corrupted(requestID, err)
	}

	entities, err := v.codec.Decode(plaintext)
	if err != nil {
		return nil, v.corrupted(requestID, err)
	}

	return entities, nil
}

// Stats returns a snapshot of the live record count.
func (v *vaultUseCase) Stats(ctx context.Context) (*vaultDomain.Stats, error) {
	count, err := v.repo.Len(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count records")
	}

	return &vaultDomain.Stats{EntriesStored: count, TTL: v.ttl}, nil
}

func (v *vaultUseCase) corrupted(requestID string, cause error) error {
	v.logger.Error("stored record could not be opened",
		slog.String("request_id", requestID),
		slog.Any("error", cause),
	)
	return fmt.Errorf("%w: %w", vaultDomain.ErrRecordCorrupted, cause)
}
