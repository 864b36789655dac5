package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/telekom-mms/go-it-crypto/internal/platform/kafka"
)

// Producer is the subset of kafka.Producer the Publisher depends on, so
// tests can supply a fake without dialing a broker.
type Producer interface {
	ProduceAsync(msg kafka.Message) error
	Close() error
}

// Publisher emits Events to a Kafka topic, fire-and-forget. A nil Publisher
// (no brokers configured) is a safe no-op, mirroring how
// userdirectory.CachingResolver tolerates a nil Redis client.
type Publisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

// NewPublisher wraps a Producer for a given topic. If p is nil, the returned
// Publisher's Emit calls are no-ops.
func NewPublisher(p Producer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{producer: p, topic: topic, logger: logger}
}

// Emit publishes an Event, keyed by actor id for per-actor ordering. Delivery
// failures are logged, never returned: an audit hiccup must not fail the
// share or unwrap operation that triggered it.
func (p *Publisher) Emit(_ context.Context, event Event) {
	if p == nil || p.producer == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("failed to marshal audit event", "operation", event.Operation, "error", err)
		}
		return
	}

	msg := kafka.Message{Topic: p.topic, Key: []byte(event.ActorID), Value: payload}
	if err := p.producer.ProduceAsync(msg); err != nil && p.logger != nil {
		p.logger.Error("failed to publish audit event", "operation", event.Operation, "error", err)
	}
}

// Close releases the underlying producer, flushing any buffered events.
func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
