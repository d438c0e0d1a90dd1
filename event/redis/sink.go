// Package redis provides an event sink that appends envelopes to a Redis
// stream, preserving the engine's emission order for external indexers.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/streamless/streamless/codec"
	"github.com/streamless/streamless/event"
)

// DefaultStream is the stream key used when none is configured.
const DefaultStream = "streamless:events"

// compile-time interface check
var _ event.Sink = (*Sink)(nil)

// Sink appends events to a Redis stream via XADD.
type Sink struct {
	client *redis.Client
	stream string
}

// Option configures a Sink.
type Option func(*Sink)

// WithStream overrides the stream key.
func WithStream(stream string) Option {
	return func(s *Sink) { s.stream = stream }
}

// New creates a stream sink and verifies connectivity.
func New(ctx context.Context, opt *redis.Options, opts ...Option) (*Sink, error) {
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("event/redis: connect: %w", err)
	}

	s := &Sink{
		client: client,
		stream: DefaultStream,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Sink) Name() string { return "redis" }

// Write appends the envelope to the stream. The envelope id and time travel
// alongside the event attributes so consumers can order and deduplicate.
func (s *Sink) Write(ctx context.Context, env event.Envelope) error {
	values := map[string]interface{}{
		"event_id": env.ID.String(),
		"kind":     string(env.Kind),
		"time":     codec.FormatU64(env.Time),
	}
	for k, v := range env.Attrs {
		values[k] = v
	}

	if err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("event/redis: xadd %s: %w", s.stream, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Sink) Close() error {
	return s.client.Close()
}
