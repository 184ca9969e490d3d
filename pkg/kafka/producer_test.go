package kafka

import (
	"context"
	"errors"
	"testing"

	kafka_config "staybook/pkg/kafka/config"
)

func newTestProducer(t *testing.T) *Producer {
	t.Helper()

	cfg := &kafka_config.Config{
		Brokers:             []string{"localhost:9092"},
		ProducerMaxAttempts: 1,
		ProducerRequireAcks: -1,
		ProducerCompression: "snappy",
	}

	p, err := NewProducer(cfg, "reservation-events", "")
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPublishRejectsEmptyKey(t *testing.T) {
	p := newTestProducer(t)

	msg := NewMessage().WithValue(map[string]string{"id": "b-1"}).Build()

	err := p.Publish(context.Background(), msg)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
	if !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey in the chain, got %v", err)
	}
}

func TestPublishRejectsEmptyValue(t *testing.T) {
	p := newTestProducer(t)

	msg := NewMessage().WithKey("b-1").Build()

	err := p.Publish(context.Background(), msg)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
	if !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue in the chain, got %v", err)
	}
}

func TestPublishAfterClose(t *testing.T) {
	p := newTestProducer(t)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	msg := NewMessage().WithKey("b-1").WithValue(map[string]string{"id": "b-1"}).Build()

	if err := p.Publish(context.Background(), msg); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
}
