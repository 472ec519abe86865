// Package memory provides in-memory implementations of driven ports.
// They are used in tests and for one-shot runs that need no persistence.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
)

// Ensure EventStore implements the interface.
var _ driven.EventStore = (*EventStore)(nil)

// EventStore is an in-memory implementation of driven.EventStore.
// Events are kept in insertion order.
type EventStore struct {
	mu     sync.RWMutex
	events []*domain.StoredStatusEvent
	byID   map[string]*domain.StoredStatusEvent
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		byID: make(map[string]*domain.StoredStatusEvent),
	}
}

// Add stores a new READY event.
func (s *EventStore) Add(_ context.Context, event domain.StatusEvent, parentID string) (*domain.StoredStatusEvent, error) {
	ev := &domain.StoredStatusEvent{
		ID:        uuid.New().String(),
		Event:     event,
		Status:    domain.StatusReady,
		ParentID:  parentID,
		UpdatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	s.byID[ev.ID] = ev

	copied := *ev
	return &copied, nil
}

// DeleteChildren removes the events expanded from parentID.
func (s *EventStore) DeleteChildren(_ context.Context, parentID string) (int, error) {
	if parentID == "" {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	removed := 0
	for _, ev := range s.events {
		if ev.ParentID == parentID {
			delete(s.byID, ev.ID)
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	// release references held past the new length
	for i := len(kept); i < len(s.events); i++ {
		s.events[i] = nil
	}
	s.events = kept
	return removed, nil
}

// Get retrieves an event by ID.
func (s *EventStore) Get(_ context.Context, id string) (*domain.StoredStatusEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *ev
	return &copied, nil
}

// NextReady returns the oldest READY event.
func (s *EventStore) NextReady(_ context.Context) (*domain.StoredStatusEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.events {
		if ev.Status == domain.StatusReady {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, domain.ErrNoReadyEvents
}

// SetStatus updates an event's status.
func (s *EventStore) SetStatus(_ context.Context, id string, status domain.EventStatus, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	ev.Status = status
	ev.Error = errMsg
	ev.UpdatedAt = time.Now().UTC()
	return nil
}

// List returns events in insertion order, optionally filtered by status.
// A non-positive limit returns all matches.
func (s *EventStore) List(_ context.Context, status domain.EventStatus, limit int) ([]domain.StoredStatusEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.StoredStatusEvent
	for _, ev := range s.events {
		if status != "" && ev.Status != status {
			continue
		}
		out = append(out, *ev)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of events with the given status.
func (s *EventStore) Count(_ context.Context, status domain.EventStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status == "" {
		return len(s.events), nil
	}
	n := 0
	for _, ev := range s.events {
		if ev.Status == status {
			n++
		}
	}
	return n, nil
}
