package store

import (
	"errors"
	"testing"

	"weather-mqtt-bridge/internal/forecast"
)

func TestMemoryStoreKeepsOnlyLatest(t *testing.T) {
	s := NewMemoryStore()

	s.Record("current", forecast.Reading{"temperature": 10.0})
	s.Record("current", forecast.Reading{"temperature": 12.5})

	entry, err := s.Get("current")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := entry.Reading["temperature"]; got != 12.5 {
		t.Fatalf("expected latest reading 12.5, got %v", got)
	}
	if len(s.All()) != 1 {
		t.Fatalf("expected a single entry, got %d", len(s.All()))
	}
}

func TestMemoryStoreUnknownTopic(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Get("forecast/1h"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type stubPublisher struct {
	err    error
	topics []string
}

func (p *stubPublisher) Publish(topic string, payload any, retained bool) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	return nil
}

func TestRecordingPublisherMirrorsSuccesses(t *testing.T) {
	s := NewMemoryStore()
	next := &stubPublisher{}

	pub := s.Recording(next)
	if err := pub.Publish("current", forecast.Reading{"temperature": 9.9}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, err := s.Get("current")
	if err != nil {
		t.Fatalf("expected mirrored entry: %v", err)
	}
	if got := entry.Reading["temperature"]; got != 9.9 {
		t.Fatalf("expected 9.9, got %v", got)
	}
}

func TestRecordingPublisherSkipsFailures(t *testing.T) {
	s := NewMemoryStore()
	next := &stubPublisher{err: errors.New("broker gone")}

	pub := s.Recording(next)
	if err := pub.Publish("current", forecast.Reading{"temperature": 9.9}, true); err == nil {
		t.Fatal("expected the publish error to propagate")
	}
	if _, err := s.Get("current"); !errors.Is(err, ErrNotFound) {
		t.Fatal("failed publishes must not be mirrored")
	}
}
