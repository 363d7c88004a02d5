package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
)

// MessageWriter is the part of kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the JSON payload published for every audit event.
type Envelope struct {
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   *uint     `json:"entity_id,omitempty"`
	UserID     *uint     `json:"user_id,omitempty"`
	Metadata   any       `json:"metadata,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher forwards audit events to a Kafka topic keyed by entity, so
// every event of one appointment lands on the same partition.
type Publisher struct {
	writer MessageWriter
	now    func() time.Time
}

func NewKafkaWriter(brokers []string, topic string) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("topic cannot be empty")
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error().Msgf(msg, args...)
		}),
	}, nil
}

func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{writer: w, now: time.Now}
}

func (p *Publisher) Name() string { return "kafka" }

func (p *Publisher) Handle(ctx context.Context, ev audit.Event) error {
	value, err := json.Marshal(Envelope{
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		UserID:     ev.UserID,
		Metadata:   ev.Metadata,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key(ev)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(ev.Action)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func key(ev audit.Event) string {
	if ev.EntityID == nil {
		return ev.Entity
	}
	return ev.Entity + ":" + strconv.FormatUint(uint64(*ev.EntityID), 10)
}

var _ audit.Sink = (*Publisher)(nil)
