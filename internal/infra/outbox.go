package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transfermarket/platform/internal/repository"
)

// TopicPrefix namespaces every Kafka topic this service produces to.
const TopicPrefix = "transfermarket."

// EventHandler processes one outbox row before it is published. Returning
// an error leaves the row unpublished for the next poll.
type EventHandler func(ctx context.Context, row repository.OutboxRow) error

// OutboxPoller drains the event_outbox table: each row is passed to the
// optional handler, published to Kafka, then marked published.
type OutboxPoller struct {
	pool      *pgxpool.Pool
	outbox    repository.OutboxRepository
	producer  *KafkaProducer
	handler   EventHandler
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates a new outbox poller. handler may be nil.
func NewOutboxPoller(pool *pgxpool.Pool, outbox repository.OutboxRepository, producer *KafkaProducer, handler EventHandler, logger *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		pool:      pool,
		outbox:    outbox,
		producer:  producer,
		handler:   handler,
		logger:    logger,
		interval:  500 * time.Millisecond,
		batchSize: 100,
	}
}

// SetInterval overrides the default poll interval.
func (p *OutboxPoller) SetInterval(d time.Duration) {
	if d > 0 {
		p.interval = d
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled.
func (p *OutboxPoller) Start(ctx context.Context) {
	go p.Run(ctx)
}

// Run polls until ctx is cancelled. Blocking variant of Start for
// consumer binaries.
func (p *OutboxPoller) Run(ctx context.Context) {
	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox poller stopped")
			return
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				p.logger.Error("outbox poll error", "error", err)
			}
		}
	}
}

func (p *OutboxPoller) poll(ctx context.Context) error {
	events, err := p.outbox.FetchUnpublished(ctx, p.pool, p.batchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	var published []int64
	for _, e := range events {
		if p.handler != nil {
			if err := p.handler(ctx, e); err != nil {
				p.logger.Error("outbox handler failed", "event_id", e.EventID, "event_type", e.EventType, "error", err)
				// Stop at the first failure so commit order is preserved.
				break
			}
		}

		topic := TopicPrefix + string(e.AggregateType)
		key := []byte(e.PartitionKey)

		msg, _ := json.Marshal(map[string]interface{}{
			"event_id":       e.EventID,
			"aggregate_type": e.AggregateType,
			"aggregate_id":   e.AggregateID,
			"event_type":     e.EventType,
			"payload":        e.Payload,
			"occurred_at":    e.OccurredAt,
		})

		if err := p.producer.Publish(ctx, topic, key, msg); err != nil {
			p.logger.Error("kafka publish failed", "event_id", e.EventID, "error", err)
			break
		}
		published = append(published, e.SeqID)
	}

	if len(published) > 0 {
		if err := p.outbox.MarkPublished(ctx, p.pool, published); err != nil {
			p.logger.Error("mark published failed", "error", err)
		}
		p.logger.Debug("outbox poll complete", "published", len(published))
	}
	return nil
}
