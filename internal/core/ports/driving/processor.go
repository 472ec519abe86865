package driving

import (
	"context"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// EventProcessor drains the event queue, expanding coarse events into
// granular ones and handing granular events on to indexing.
type EventProcessor interface {
	// ProcessNext processes the oldest READY event.
	// Returns domain.ErrNoReadyEvents when the queue is empty. Any other
	// error means processing must stop; the event is left READY.
	ProcessNext(ctx context.Context) (*domain.ProcessResult, error)

	// Run processes events until the queue is empty or an error stops it.
	Run(ctx context.Context) (domain.ProcessStats, error)
}
