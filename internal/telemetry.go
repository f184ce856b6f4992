package internal

import (
	"context"
	"sync"
)

// Lightweight telemetry hook layer for the compiler pipeline. The
// implementation is intentionally minimal: callers register a real
// emitter (backed by whatever the MetricsConfig namespace points at) via
// RegisterTelemetryEmitter. By default the emitter is a no-op.

type telemetryEmitter func(ctx context.Context, name string, labels map[string]string, value any)

var (
	teleMu   sync.Mutex
	teleImpl telemetryEmitter = func(ctx context.Context, name string, labels map[string]string, value any) {}
)

// RegisterTelemetryEmitter registers a custom emitter function.
func RegisterTelemetryEmitter(fn telemetryEmitter) {
	teleMu.Lock()
	defer teleMu.Unlock()
	if fn == nil {
		teleImpl = func(ctx context.Context, name string, labels map[string]string, value any) {}
		return
	}
	teleImpl = fn
}

func emit(ctx context.Context, name string, labels map[string]string, value any) {
	teleMu.Lock()
	fn := teleImpl
	teleMu.Unlock()
	fn(ctx, name, labels, value)
}

// EmitLatency records a latency measure (milliseconds) for a named
// compiler stage: "parse", "compile", or "execute".
func EmitLatency(ctx context.Context, stage string, ms int64) {
	emit(ctx, "queryc_stage_latency_ms", map[string]string{"stage": stage}, ms)
}

// EmitRowCount records the number of rows a query returned, labeled by
// the endpoint name it was issued against.
func EmitRowCount(ctx context.Context, endpoint string, rows int64) {
	emit(ctx, "queryc_row_count", map[string]string{"endpoint": endpoint}, rows)
}

// EmitQueryOutcome records a compiled-query outcome, labeled by endpoint
// and a coarse result class ("ok", "malformed", "error").
func EmitQueryOutcome(ctx context.Context, endpoint, outcome string) {
	emit(ctx, "queryc_query_outcome_total", map[string]string{"endpoint": endpoint, "outcome": outcome}, int64(1))
}
