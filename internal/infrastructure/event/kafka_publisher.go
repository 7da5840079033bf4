package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// ErrNoBrokers is returned when Kafka publishing is enabled without brokers
var ErrNoBrokers = errors.New("event: at least one broker is required")

// ProducerClient is the subset of *kgo.Client used by KafkaPublisher
type ProducerClient interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
	Close()
}

// KafkaConfig holds producer settings
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// KafkaPublisher produces Avro-encoded events asynchronously. Delivery
// failures are reported through the logger.
type KafkaPublisher struct {
	client ProducerClient
	codec  *Codec
	logger *zap.Logger
}

// NewKafkaPublisher connects to the brokers and verifies reachability
func NewKafkaPublisher(ctx context.Context, cfg KafkaConfig, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.LeaderAck()),
		kgo.DisableIdempotentWrite(),
		kgo.AllowAutoTopicCreation(),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("event: create kafka client: %w", err)
	}
	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("event: ping brokers: %w", err)
	}
	return NewKafkaPublisherWithClient(cl, logger)
}

// NewKafkaPublisherWithClient wraps an existing producer client
func NewKafkaPublisherWithClient(client ProducerClient, logger *zap.Logger) (*KafkaPublisher, error) {
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{client: client, codec: codec, logger: logger}, nil
}

// Publish enqueues the events and returns without waiting for acks. Only
// encoding failures are returned.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	// The request context is cancelled once the handler returns, which would
	// abort buffered records.
	produceCtx := context.WithoutCancel(ctx)
	for _, e := range events {
		if e.SessionID == "" {
			e.SessionID = SessionIDFromContext(ctx)
		}
		value, err := p.codec.Encode(e)
		if err != nil {
			return fmt.Errorf("event: encode %s: %w", e.Type, err)
		}
		rec := &kgo.Record{
			Key:   []byte(e.Subject),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(e.Type)},
			},
		}
		p.client.Produce(produceCtx, rec, func(r *kgo.Record, err error) {
			if err != nil {
				p.logger.Warn("failed to deliver analytics event",
					zap.String("event_type", e.Type),
					zap.String("event_id", e.ID),
					zap.Error(err),
				)
			}
		})
	}
	return nil
}

// Close flushes buffered records and closes the client
func (p *KafkaPublisher) Close(ctx context.Context) error {
	err := p.client.Flush(ctx)
	p.client.Close()
	if err != nil {
		return fmt.Errorf("event: flush: %w", err)
	}
	return nil
}

var _ Publisher = (*KafkaPublisher)(nil)
