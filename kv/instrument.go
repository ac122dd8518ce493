package kv

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amirrezaask/claimcache/kv"

const (
	resultOK    = "ok"
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Instrumented decorates a Store with prometheus metrics, otel spans and error logs.
// It changes nothing about the results of the wrapped store.
type Instrumented struct {
	next     Store
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tracer   trace.Tracer
}

func Instrument(next Store, reg prometheus.Registerer, namespace string) *Instrumented {
	factory := promauto.With(reg)
	return &Instrumented{
		next: next,
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kv",
			Name:      "operations_total",
			Help:      "How many key-value store operations were made, partitioned by operation and result.",
		}, []string{"op", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kv",
			Name:      "operation_duration_seconds",
			Buckets: []float64{
				0.0005,
				0.001, // 1ms
				0.002,
				0.005,
				0.01, // 10ms
				0.02,
				0.05,
				0.1, // 100 ms
				0.2,
				0.5,
				1.0, // 1s
			},
		}, []string{"op"}),
		tracer: otel.Tracer(tracerName),
	}
}

func (i *Instrumented) start(ctx context.Context, op, key string) (context.Context, trace.Span, time.Time) {
	ctx, span := i.tracer.Start(ctx, "kv."+op, trace.WithAttributes(attribute.String("kv.key", key)))
	return ctx, span, time.Now()
}

func (i *Instrumented) finish(span trace.Span, op, key, result string, start time.Time, err error) {
	i.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	i.ops.WithLabelValues(op, result).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("error in kv store", "op", op, "key", key, "err", err)
	}
	span.SetAttributes(attribute.String("kv.result", result))
	span.End()
}

func lookupResult(ok bool, err error) string {
	switch {
	case err != nil:
		return resultError
	case ok:
		return resultHit
	default:
		return resultMiss
	}
}

func writeResult(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, span, start := i.start(ctx, "get", key)
	raw, ok, err := i.next.Get(ctx, key)
	i.finish(span, "get", key, lookupResult(ok, err), start, err)
	return raw, ok, err
}

func (i *Instrumented) Set(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	ctx, span, start := i.start(ctx, "set", key)
	span.SetAttributes(attribute.Int64("kv.ttl_seconds", int64(ttl/time.Second)))
	err := i.next.Set(ctx, key, raw, ttl)
	i.finish(span, "set", key, writeResult(err), start, err)
	return err
}

func (i *Instrumented) Del(ctx context.Context, key string) error {
	ctx, span, start := i.start(ctx, "del", key)
	err := i.next.Del(ctx, key)
	i.finish(span, "del", key, writeResult(err), start, err)
	return err
}

func (i *Instrumented) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	ctx, span, start := i.start(ctx, "ttl", key)
	d, ok, err := i.next.TTL(ctx, key)
	i.finish(span, "ttl", key, lookupResult(ok, err), start, err)
	return d, ok, err
}

func (i *Instrumented) Ping(ctx context.Context) error {
	p, ok := i.next.(Pinger)
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}
