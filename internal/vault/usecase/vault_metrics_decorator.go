package usecase

import (
	"context"
	"time"

	apperrors "github.com/saferoute/vault/internal/errors"
	"github.com/saferoute/vault/internal/metrics"
	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Store records metrics for store operations.
func (v *vaultUseCaseWithMetrics) Store(
	ctx context.Context,
	requestID string,
	entities []vaultDomain.Entity,
) (*vaultDomain.StoreResult, error) {
	start := time.Now()
	result, err := v.next.Store(ctx, requestID, entities)
	v.record(ctx, "store", start, err)
	return result, err
}

// Retrieve records metrics for retrieve operations. A not-found outcome counts as "not_found",
// not "error".
func (v *vaultUseCaseWithMetrics) Retrieve(ctx context.Context, requestID string) ([]vaultDomain.Entity, error) {
	start := time.Now()
	entities, err := v.next.Retrieve(ctx, requestID)
	v.record(ctx, "retrieve", start, err)
	return entities, err
}

// Stats is not instrumented.
func (v *vaultUseCaseWithMetrics) Stats(ctx context.Context) (*vaultDomain.Stats, error) {
	return v.next.Stats(ctx)
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	switch {
	case err == nil:
	case apperrors.Is(err, apperrors.ErrNotFound):
		status = "not_found"
	default:
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}
