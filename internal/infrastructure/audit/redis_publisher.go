// Package audit publishes domain events to a Redis stream for downstream
// audit consumers. Publishing is best-effort and always happens after the
// database transaction that produced the events has committed.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nexerp/backend/internal/domain/shared"
)

const defaultStream = "audit:events"

// RedisEventPublisher implements shared.EventPublisher using Redis Streams.
// Each event becomes one XADD entry carrying the event envelope fields plus
// the full JSON payload.
type RedisEventPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

// Config holds Redis stream publisher configuration
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Stream   string // stream key, defaults to "audit:events"
	MaxLen   int64  // approximate stream cap, 0 keeps everything
}

// NewRedisEventPublisher creates a publisher with its own Redis client
func NewRedisEventPublisher(cfg Config, logger *zap.Logger) (*RedisEventPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisEventPublisherWithClient(client, cfg.Stream, cfg.MaxLen, logger), nil
}

// NewRedisEventPublisherWithClient creates a publisher with an existing
// Redis client. Useful for testing or when sharing a client across components.
func NewRedisEventPublisherWithClient(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *RedisEventPublisher {
	if stream == "" {
		stream = defaultStream
	}
	return &RedisEventPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger.Named("audit"),
	}
}

// Publish appends the events to the audit stream. The first failure is
// returned, but callers treat publishing as best-effort.
func (p *RedisEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		if err := p.publishOne(ctx, event); err != nil {
			p.logger.Error("failed to publish audit event",
				zap.String("event_id", event.EventID().String()),
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

func (p *RedisEventPublisher) publishOne(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event %s: %w", event.EventID(), err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_id":       event.EventID().String(),
			"event_type":     event.EventType(),
			"aggregate_id":   event.AggregateID().String(),
			"aggregate_type": event.AggregateType(),
			"occurred_at":    event.OccurredAt().UTC().Format(time.RFC3339Nano),
			"payload":        string(payload),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to append event %s to stream %s: %w", event.EventID(), p.stream, err)
	}
	return nil
}

// Close closes the Redis client
func (p *RedisEventPublisher) Close() error {
	return p.client.Close()
}

// Ensure RedisEventPublisher implements EventPublisher
var _ shared.EventPublisher = (*RedisEventPublisher)(nil)
