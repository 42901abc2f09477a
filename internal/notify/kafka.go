package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the Kafka notifier.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events as JSON messages keyed by repo/branch.
type Kafka struct {
	writer   messageWriter
	endpoint string
	log      *slog.Logger
}

// NewKafka returns a Notifier that writes to cfg.Topic. Writes are not retried.
func NewKafka(cfg KafkaConfig) *Kafka {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		Topic:        cfg.Topic,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  1,
		BatchSize:    1,
		WriteTimeout: cfg.WriteTimeout,
	}
	return newKafka(writer, strings.Join(cfg.Brokers, ",")+"/"+cfg.Topic)
}

func newKafka(w messageWriter, endpoint string) *Kafka {
	return &Kafka{writer: w, endpoint: endpoint, log: slog.Default()}
}

// Emit implements Notifier.
func (k *Kafka) Emit(ctx context.Context, evt Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return &DeliveryError{Endpoint: k.endpoint, Err: err}
	}
	msg := kafka.Message{
		Key:   []byte(evt.Repo + "/" + evt.Branch),
		Value: value,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return &DeliveryError{Endpoint: k.endpoint, Err: err}
	}
	k.log.Debug("kafka message written", "endpoint", k.endpoint, "key", string(msg.Key))
	return nil
}

// Close flushes and closes the underlying writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
