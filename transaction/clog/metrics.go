package clog

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the metric instruments for the ledger.
type metrics struct {
	beginCounter   metric.Int64Counter
	commitCounter  metric.Int64Counter
	abortCounter   metric.Int64Counter
	flushHistogram metric.Int64Histogram
}

// newMetrics creates the metric instruments from meter.
func newMetrics(meter metric.Meter) (*metrics, error) {
	beginCounter, err := meter.Int64Counter(
		"xidledger.begin",
		metric.WithDescription("Total number of transaction ids allocated."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "meter.Int64Counter failed")
	}

	commitCounter, err := meter.Int64Counter(
		"xidledger.commit",
		metric.WithDescription("Total number of transactions committed."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "meter.Int64Counter failed")
	}

	abortCounter, err := meter.Int64Counter(
		"xidledger.abort",
		metric.WithDescription("Total number of transactions aborted."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "meter.Int64Counter failed")
	}

	flushHistogram, err := meter.Int64Histogram(
		"xidledger.flush.duration",
		metric.WithDescription("The latency of durability flushes of the ledger file."),
		metric.WithUnit("us"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "meter.Int64Histogram failed")
	}

	return &metrics{
		beginCounter:   beginCounter,
		commitCounter:  commitCounter,
		abortCounter:   abortCounter,
		flushHistogram: flushHistogram,
	}, nil
}

// recordTransition records the allocation or the terminal transition of a transaction
func (mt *metrics) recordTransition(st State) {
	ctx := context.Background()
	switch st {
	case StateActive:
		mt.beginCounter.Add(ctx, 1)
	case StateCommitted:
		mt.commitCounter.Add(ctx, 1)
	case StateAborted:
		mt.abortCounter.Add(ctx, 1)
	}
}

// observeFlush records the duration of a durability flush
func (mt *metrics) observeFlush(d time.Duration) {
	mt.flushHistogram.Record(context.Background(), d.Microseconds())
}
