package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// LiveRecordCounter reports how many records the store currently holds.
type LiveRecordCounter func(ctx context.Context) (int64, error)

// StoreMetrics records store-level measurements that are not tied to a single request.
type StoreMetrics interface {
	// RecordPurged adds count to the number of records removed by the reaper.
	RecordPurged(ctx context.Context, count int64)
}

type storeMetrics struct {
	purgedCounter metric.Int64Counter
}

// NewStoreMetrics registers the <namespace>_records_live gauge, observed through liveRecords on
// every collection, and the <namespace>_records_purged_total counter.
func NewStoreMetrics(
	meterProvider metric.MeterProvider,
	namespace string,
	liveRecords LiveRecordCounter,
) (StoreMetrics, error) {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_records_live", namespace),
		metric.WithDescription("Number of live records held by the vault"),
		metric.WithUnit("{record}"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			count, err := liveRecords(ctx)
			if err != nil {
				return err
			}
			o.Observe(count)
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create live records gauge: %w", err)
	}

	purgedCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_records_purged_total", namespace),
		metric.WithDescription("Total number of expired records removed by the reaper"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create purged records counter: %w", err)
	}

	return &storeMetrics{purgedCounter: purgedCounter}, nil
}

func (s *storeMetrics) RecordPurged(ctx context.Context, count int64) {
	if count > 0 {
		s.purgedCounter.Add(ctx, count)
	}
}

// NoOpStoreMetrics discards everything.
type NoOpStoreMetrics struct{}

// NewNoOpStoreMetrics creates a no-op StoreMetrics implementation.
func NewNoOpStoreMetrics() StoreMetrics {
	return &NoOpStoreMetrics{}
}

func (n *NoOpStoreMetrics) RecordPurged(context.Context, int64) {}
