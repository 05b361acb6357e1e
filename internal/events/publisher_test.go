// AngelaMos | 2026
// publisher_test.go

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/config"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_PublishOrderPlaced(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	evt := OrderPlaced{
		OrderID: 42,
		UserID:  7,
		Total:   decimal.RequireFromString("20.00"),
		Items: []OrderPlacedItem{
			{ProductID: 3, Quantity: 2, Price: decimal.RequireFromString("10.00")},
		},
		PlacedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, p.PublishOrderPlaced(context.Background(), evt))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventOrderPlaced, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, EventOrderPlaced, decoded["event"])
	assert.EqualValues(t, 42, decoded["order_id"])
	assert.EqualValues(t, 7, decoded["user_id"])
	assert.Len(t, decoded["items"], 1)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w}

	err := p.PublishOrderPlaced(context.Background(), OrderPlaced{OrderID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewWriterFlushesEachMessage(t *testing.T) {
	w := newWriter(config.KafkaConfig{
		Brokers:      []string{"k1:9092", "k2:9092"},
		Topic:        "orders.placed",
		WriteTimeout: 3 * time.Second,
	})
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.Equal(t, "orders.placed", w.Topic)
}
