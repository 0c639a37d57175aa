package kafka_middleware

import (
	"context"
	"errors"
	"roomres/pkg/kafka"
	"roomres/pkg/logger"
	"testing"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	m := NewMetrics()
	publish := m.ProducerMiddleware()
	consume := m.ConsumerMiddleware()

	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("boom") }

	_ = publish(context.Background(), kafka.Message{}, ok)
	_ = publish(context.Background(), kafka.Message{}, fail)
	_ = consume(context.Background(), kafka.Message{}, ok)
	_ = consume(context.Background(), kafka.Message{}, ok)
	_ = consume(context.Background(), kafka.Message{}, fail)

	s := m.Snapshot()
	if s.Published != 1 || s.PublishFailed != 1 {
		t.Errorf("publish counts = %d/%d, want 1/1", s.Published, s.PublishFailed)
	}
	if s.Consumed != 2 || s.ConsumeFailed != 1 {
		t.Errorf("consume counts = %d/%d, want 2/1", s.Consumed, s.ConsumeFailed)
	}
}

func TestLoggingMiddleware_PassesErrorThrough(t *testing.T) {
	want := errors.New("boom")
	log := logger.Discard()

	err := LoggingConsumerMiddleware(log)(context.Background(), kafka.Message{Headers: map[string]string{}}, func(ctx context.Context, msg kafka.Message) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("consumer middleware error = %v, want %v", err, want)
	}

	err = LoggingProducerMiddleware(log)(context.Background(), kafka.Message{Headers: map[string]string{}}, func(ctx context.Context, msg kafka.Message) error {
		return nil
	})
	if err != nil {
		t.Errorf("producer middleware error = %v", err)
	}
}
