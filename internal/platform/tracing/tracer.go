// Package tracing is a lightweight tracing abstraction over the share/unwrap
// protocol operations. It defines an internal Tracer interface independent
// of OpenTelemetry so the transport layer doesn't import otel directly.
package tracing

import "context"

// Span represents an active trace span. End must be called exactly once,
// typically via defer.
type Span interface {
	// End completes the span, recording err if non-nil.
	End(err error)
	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to a span.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute { return Attribute{Key: key, Value: value} }

// Int creates an int attribute.
func Int(key string, value int) Attribute { return Attribute{Key: key, Value: value} }

// noopTracer discards every span, used when no Tracer is configured.
type noopTracer struct{}

// Noop returns a Tracer that does nothing, the zero-value-safe default.
func Noop() Tracer { return noopTracer{} }

func (noopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error)                  {}
func (noopSpan) SetAttributes(...Attribute) {}
