package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driving"
)

// Ensure EventService implements the interface.
var _ driving.EventService = (*EventService)(nil)

// EventService manages the event queue.
type EventService struct {
	store    driven.EventStore
	registry driving.HandlerRegistry
}

// NewEventService creates an event service. Submitted events must have a
// storage code known to registry.
func NewEventService(store driven.EventStore, registry driving.HandlerRegistry) *EventService {
	return &EventService{store: store, registry: registry}
}

// Submit queues a new root event.
func (s *EventService) Submit(ctx context.Context, event domain.StatusEvent) (*domain.StoredStatusEvent, error) {
	if _, err := domain.ParseStatusEventType(string(event.EventType)); err != nil {
		return nil, err
	}
	if _, err := s.registry.Get(event.StorageCode); err != nil {
		return nil, err
	}
	if event.Timestamp.IsZero() {
		return nil, fmt.Errorf("%w: event has no timestamp", domain.ErrInvalidInput)
	}
	return s.store.Add(ctx, event, "")
}

// Get retrieves a queued event by ID.
func (s *EventService) Get(ctx context.Context, id string) (*domain.StoredStatusEvent, error) {
	return s.store.Get(ctx, id)
}

// List returns queued events, optionally filtered by status.
func (s *EventService) List(ctx context.Context, status domain.EventStatus, limit int) ([]domain.StoredStatusEvent, error) {
	return s.store.List(ctx, status, limit)
}

// Retry puts a FAIL event back to READY.
func (s *EventService) Retry(ctx context.Context, id string) error {
	ev, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if ev.Status != domain.StatusFailed {
		return fmt.Errorf("%w: event %s is %s, not %s", domain.ErrInvalidInput, id, ev.Status, domain.StatusFailed)
	}
	return s.store.SetStatus(ctx, id, domain.StatusReady, "")
}

// Counts returns the number of events per status.
func (s *EventService) Counts(ctx context.Context) (map[domain.EventStatus]int, error) {
	counts := make(map[domain.EventStatus]int)
	for _, st := range []domain.EventStatus{
		domain.StatusUnprocessed,
		domain.StatusReady,
		domain.StatusProcessed,
		domain.StatusIndexable,
		domain.StatusFailed,
	} {
		n, err := s.store.Count(ctx, st)
		if err != nil {
			return nil, err
		}
		counts[st] = n
	}
	return counts, nil
}
