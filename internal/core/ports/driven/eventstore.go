package driven

import (
	"context"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// EventStore persists status events and their processing state.
type EventStore interface {
	// Add stores a new event with status READY. parentID links a granular
	// event to the coarse event it was expanded from; empty for roots.
	Add(ctx context.Context, event domain.StatusEvent, parentID string) (*domain.StoredStatusEvent, error)

	// DeleteChildren removes the events expanded from parentID and returns
	// how many were removed.
	DeleteChildren(ctx context.Context, parentID string) (int, error)

	// Get retrieves an event by ID.
	// Returns domain.ErrNotFound if the event does not exist.
	Get(ctx context.Context, id string) (*domain.StoredStatusEvent, error)

	// NextReady returns the oldest READY event.
	// Returns domain.ErrNoReadyEvents if there is none.
	NextReady(ctx context.Context) (*domain.StoredStatusEvent, error)

	// SetStatus updates an event's status. errMsg is kept for FAIL events.
	SetStatus(ctx context.Context, id string, status domain.EventStatus, errMsg string) error

	// List returns events in insertion order. An empty status matches all.
	List(ctx context.Context, status domain.EventStatus, limit int) ([]domain.StoredStatusEvent, error)

	// Count returns the number of events with the given status.
	// An empty status counts all events.
	Count(ctx context.Context, status domain.EventStatus) (int, error)
}
