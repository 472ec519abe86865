package driving

import "context"

// Scheduler drains the event queue periodically.
type Scheduler interface {
	// Start begins polling the queue.
	// Blocks until context is cancelled, Stop is called, or processing aborts.
	Start(ctx context.Context) error

	// Stop gracefully stops polling and waits for the current run.
	Stop() error
}
