package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoBrokersIsNop(t *testing.T) {
	p := New(nil, "order_events")

	_, ok := p.(NopPublisher)
	require.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), "1001", OrderPlaced{Type: TypeOrderPlaced}))
	assert.NoError(t, p.Close())
}

func TestNew_WithBrokersIsKafka(t *testing.T) {
	p := New([]string{"localhost:9092"}, "order_events")

	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "order_events", kp.writer.Topic)
	assert.True(t, kp.writer.Async, "writes must not wait for broker acks")
	assert.NoError(t, kp.Close())
}

func TestKafkaPublisher_MarshalError(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "order_events")
	t.Cleanup(func() { _ = p.Close() })

	err := p.Publish(context.Background(), "k", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestKafkaPublisher_UnreachableBrokerHonoursDeadline(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "order_events")
	t.Cleanup(func() { _ = p.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_ = p.Publish(ctx, "1001", OrderPlaced{Type: TypeOrderPlaced, OrderID: 1001})
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLogFailedWrites(t *testing.T) {
	assert.NotPanics(t, func() {
		logFailedWrites(nil, nil)
		logFailedWrites([]kafka.Message{{Key: []byte("1001")}}, errors.New("broker down"))
	})
}
