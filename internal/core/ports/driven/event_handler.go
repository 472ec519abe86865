package driven

import (
	"context"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// EventHandler connects one storage system to the indexing pipeline.
// Each storage backend (workspace, etc.) implements this interface.
//
// Every error returned from a remote operation is a *domain.IndexingError
// whose kind tells the caller whether to abort, retry, or fail the event.
type EventHandler interface {
	// StorageCode returns the code of the storage system this handler serves.
	StorageCode() string

	// Load fetches the data and provenance of the object at the end of a
	// reference chain. The payload is spooled through file.
	Load(ctx context.Context, guids []domain.GUID, file string) (*domain.SourceData, error)

	// BuildReferencePaths returns the storage-specific reference path of each
	// ref when reached through refPath, keyed by the ref's GUID string.
	BuildReferencePaths(refPath []domain.GUID, refs []domain.GUID) (map[string]string, error)

	// ResolveReferences resolves refs, reached through refPath, to their
	// canonical locations. Results are in the same order as refs.
	ResolveReferences(ctx context.Context, refPath []domain.GUID, refs []domain.GUID) ([]domain.ResolvedReference, error)

	// IsExpandable reports whether Expand would split the event.
	IsExpandable(event domain.StoredStatusEvent) (bool, error)

	// Expand splits a coarse event into granular events. Non-expandable
	// events come back unchanged as a single-element sequence.
	Expand(ctx context.Context, event domain.StoredStatusEvent) (EventIterator, error)

	// Close releases resources.
	Close() error
}

// EventIterator is a lazy, single-pass sequence of events. It may make
// blocking remote calls from Next and is not safe for concurrent use.
//
//	for it.Next(ctx) {
//	    ev := it.Event()
//	}
//	if err := it.Err(); err != nil { ... }
type EventIterator interface {
	// Next advances to the next event, fetching more if needed.
	// Returns false at the end of the sequence or on error.
	Next(ctx context.Context) bool

	// Event returns the current event. Only valid after Next returned true.
	Event() domain.StatusEvent

	// Err returns the error that stopped iteration, if any. It keeps the
	// classification assigned where the failure was observed.
	Err() error
}

// Collect drains an iterator into a slice.
func Collect(ctx context.Context, it EventIterator) ([]domain.StatusEvent, error) {
	var events []domain.StatusEvent
	for it.Next(ctx) {
		events = append(events, it.Event())
	}
	return events, it.Err()
}

// SliceIterator iterates over a fixed list of events.
type SliceIterator struct {
	events []domain.StatusEvent
	pos    int
}

var _ EventIterator = (*SliceIterator)(nil)

// NewSliceIterator creates an iterator over events.
func NewSliceIterator(events ...domain.StatusEvent) *SliceIterator {
	return &SliceIterator{events: events, pos: -1}
}

// Next advances to the next event.
func (s *SliceIterator) Next(_ context.Context) bool {
	if s.pos+1 >= len(s.events) {
		s.pos = len(s.events)
		return false
	}
	s.pos++
	return true
}

// Event returns the current event.
func (s *SliceIterator) Event() domain.StatusEvent {
	return s.events[s.pos]
}

// Err always returns nil.
func (s *SliceIterator) Err() error {
	return nil
}
