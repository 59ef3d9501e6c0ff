package store

import (
	"errors"
	"sync"
	"time"

	"weather-mqtt-bridge/internal/forecast"
)

var (
	// ErrNotFound is returned when a topic has never published a reading.
	ErrNotFound = errors.New("no reading for topic")
)

// Entry is the last reading published on a topic, with the time it went out.
type Entry struct {
	Topic       string           `json:"topic"`
	Reading     forecast.Reading `json:"reading"`
	PublishedAt time.Time        `json:"publishedAt"`
}

// MemoryStore is a concurrency-safe mirror of the last reading published
// per topic. It backs the operational status API only; the broker's
// retained messages remain the source of truth for consumers.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Entry)}
}

// Record replaces the stored reading for topic.
func (s *MemoryStore) Record(topic string, reading forecast.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[topic] = Entry{Topic: topic, Reading: reading, PublishedAt: time.Now().UTC()}
}

// Get returns the last reading for topic.
func (s *MemoryStore) Get(topic string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[topic]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

// All returns every stored entry in unspecified order.
func (s *MemoryStore) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.data))
	for _, e := range s.data {
		entries = append(entries, e)
	}
	return entries
}

// Recording wraps next so that every reading that publishes successfully is
// also mirrored into the store.
func (s *MemoryStore) Recording(next forecast.Publisher) forecast.Publisher {
	return &recordingPublisher{store: s, next: next}
}

type recordingPublisher struct {
	store *MemoryStore
	next  forecast.Publisher
}

func (p *recordingPublisher) Publish(topic string, payload any, retained bool) error {
	if err := p.next.Publish(topic, payload, retained); err != nil {
		return err
	}
	if reading, ok := payload.(forecast.Reading); ok {
		p.store.Record(topic, reading)
	}
	return nil
}
