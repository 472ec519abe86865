package driving

import (
	"context"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// EventService manages the event queue.
type EventService interface {
	// Submit queues a new event as READY.
	Submit(ctx context.Context, event domain.StatusEvent) (*domain.StoredStatusEvent, error)

	// Get retrieves a queued event by ID.
	Get(ctx context.Context, id string) (*domain.StoredStatusEvent, error)

	// List returns queued events, optionally filtered by status.
	List(ctx context.Context, status domain.EventStatus, limit int) ([]domain.StoredStatusEvent, error)

	// Retry puts a FAIL event back to READY.
	Retry(ctx context.Context, id string) error

	// Counts returns the number of events per status.
	Counts(ctx context.Context) (map[domain.EventStatus]int, error)
}
