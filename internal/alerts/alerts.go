// Package alerts publishes critical classifications to a Kafka topic so
// downstream consumers (pagers, dashboards) see extreme deviations without
// polling the prediction endpoint.
package alerts

import (
	"context"
	"encoding/json"
	"time"

	"codeberg.org/mutker/thermowatch/internal/errors"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers []string
	Topic   string
	Enabled bool
}

func DefaultConfig() Config {
	return Config{
		Brokers: []string{"localhost:9092"},
		Topic:   "thermowatch.alerts",
		Enabled: false, // Disabled by default
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return errFactory.New(ErrMissingBrokers)
	}
	if c.Topic == "" {
		return errFactory.New(ErrMissingTopic)
	}
	return nil
}

// Event is one published alert
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	Confidence    float64   `json:"confidence"`
	MeanTemp      float64   `json:"meanTemp"`
	MaxDeviation  float64   `json:"maxDeviation"`
	InputSensors  int       `json:"inputSensors"`
	ActiveSensors int       `json:"activeSensors"`
}

// Publisher defines the core domain interface
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// No-op implementation
type noopPublisher struct{}

// New returns a Kafka-backed publisher, or a no-op publisher when alert
// publishing is disabled
func New(cfg Config) (Publisher, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		return &noopPublisher{}, nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &kafkaPublisher{writer: writer}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *Event) error {
	errFactory := errors.New()

	value, err := json.Marshal(event)
	if err != nil {
		return errFactory.Wrap(ErrPublishFailed, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Status),
		Value: value,
		Time:  event.Timestamp,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errFactory.Wrap(ErrPublishFailed, err)
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	errFactory := errors.New()

	if err := p.writer.Close(); err != nil {
		return errFactory.Wrap(ErrCloseFailed, err)
	}
	return nil
}

func (*noopPublisher) Publish(_ context.Context, _ *Event) error {
	return nil
}

func (*noopPublisher) Close() error {
	return nil
}
