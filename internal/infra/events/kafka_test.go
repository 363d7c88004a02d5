package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
)

type mockWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	written   []kafka.Message
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.written = append(m.written, msgs...)
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockWriter) Close() error { return nil }

func TestPublisher_Handle(t *testing.T) {
	w := &mockWriter{}
	p := NewPublisher(w)
	p.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }

	id, user := uint(42), uint(7)
	err := p.Handle(context.Background(), audit.Event{
		UserID:   &user,
		Action:   audit.ActionAppointmentBooked,
		Entity:   "appointment",
		EntityID: &id,
		Metadata: map[string]string{"barber": "mario"},
	})
	require.NoError(t, err)
	require.Len(t, w.written, 1)

	msg := w.written[0]
	assert.Equal(t, "appointment:42", string(msg.Key))
	assert.Equal(t, "action", msg.Headers[0].Key)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, audit.ActionAppointmentBooked, env.Action)
	assert.Equal(t, uint(42), *env.EntityID)
	assert.Equal(t, uint(7), *env.UserID)
	assert.True(t, env.OccurredAt.Equal(p.now()))
}

func TestPublisher_PropagatesWriteError(t *testing.T) {
	w := &mockWriter{writeFunc: func(context.Context, ...kafka.Message) error {
		return errors.New("leader not available")
	}}

	err := NewPublisher(w).Handle(context.Background(), audit.Event{Action: "x", Entity: "payment"})
	assert.EqualError(t, err, "leader not available")
	assert.Equal(t, "payment", string(w.written[0].Key))
}

func TestNewKafkaWriter_Validates(t *testing.T) {
	_, err := NewKafkaWriter(nil, "topic")
	assert.Error(t, err)

	_, err = NewKafkaWriter([]string{"localhost:9092"}, "")
	assert.Error(t, err)

	w, err := NewKafkaWriter([]string{"localhost:9092"}, "barbershop.appointments")
	require.NoError(t, err)
	assert.Equal(t, "barbershop.appointments", w.Topic)
}
