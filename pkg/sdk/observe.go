package esdsl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/esdsl/internal/domain"
)

type operation string

const (
	opCompile operation = "compile"
	opCombine operation = "combine"
)

// noAlgebraOp labels calls that are not combinations, or combinations with a rejected op.
const noAlgebraOp = "none"

// Outcome label values.
const (
	outcomeOK          = "ok"
	outcomeAmbiguous   = "ambiguous"
	outcomeUnknownKind = "unknown_kind"
	outcomeInvalid     = "invalid"
	outcomeError       = "error"
)

type sdkMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esdsl",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "SDK calls by operation, algebra op and outcome.",
	}, []string{"operation", "op", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "esdsl",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "SDK call latency in seconds. Calls are in-memory, so buckets start at 10µs.",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 5),
	}, []string{"operation"})

	if err := registerOrReuse(reg, &calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &latency); err != nil {
		return nil, err
	}
	return &sdkMetrics{calls: calls, latency: latency}, nil
}

// registerOrReuse registers c, or swaps in the collector already registered under the same
// descriptor so several clients can share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("esdsl: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("esdsl: metric already registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrAmbiguousConstruction):
		return outcomeAmbiguous
	case errors.Is(err, domain.ErrUnknownQueryKind):
		return outcomeUnknownKind
	case errors.Is(err, domain.ErrInvalidQuery):
		return outcomeInvalid
	default:
		return outcomeError
	}
}

// observer counts, times and logs SDK calls. A nil observer and nil parts are no-ops.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newSDKMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

// observe records one call. algebraOp must come from a validated Op or be noAlgebraOp.
func (o *observer) observe(ctx context.Context, op operation, algebraOp string, start time.Time, err error) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)
	result := outcome(err)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(string(op), algebraOp, result).Inc()
		o.metrics.latency.WithLabelValues(string(op)).Observe(elapsed.Seconds())
	}

	if o.logger == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("operation", string(op)),
		slog.String("outcome", result),
		slog.Duration("elapsed", elapsed),
	}
	if algebraOp != noAlgebraOp {
		attrs = append(attrs, slog.String("op", algebraOp))
	}
	if err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "esdsl call failed", append(attrs, slog.Any("error", err))...)
		return
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "esdsl call", attrs...)
}
