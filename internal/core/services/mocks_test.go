package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
)

// --- Mock implementations for processor testing ---

// mockEventStore implements driven.EventStore for testing.
type mockEventStore struct {
	mu     sync.Mutex
	events []*domain.StoredStatusEvent
	nextID int

	addErr    error
	addErrAt  int // fail the n-th Add (1-based) when addErr is set
	addCalls  int
	statusErr error
}

var _ driven.EventStore = (*mockEventStore)(nil)

func newMockEventStore() *mockEventStore {
	return &mockEventStore{}
}

func (m *mockEventStore) Add(_ context.Context, event domain.StatusEvent, parentID string) (*domain.StoredStatusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCalls++
	if m.addErr != nil && (m.addErrAt == 0 || m.addErrAt == m.addCalls) {
		return nil, m.addErr
	}
	m.nextID++
	ev := &domain.StoredStatusEvent{
		ID:        fmt.Sprintf("ev-%d", m.nextID),
		Event:     event,
		Status:    domain.StatusReady,
		ParentID:  parentID,
		UpdatedAt: time.Now(),
	}
	m.events = append(m.events, ev)
	copied := *ev
	return &copied, nil
}

func (m *mockEventStore) DeleteChildren(_ context.Context, parentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	removed := 0
	for _, ev := range m.events {
		if ev.ParentID == parentID {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	m.events = kept
	return removed, nil
}

func (m *mockEventStore) Get(_ context.Context, id string) (*domain.StoredStatusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockEventStore) NextReady(_ context.Context) (*domain.StoredStatusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.Status == domain.StatusReady {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, domain.ErrNoReadyEvents
}

func (m *mockEventStore) SetStatus(_ context.Context, id string, status domain.EventStatus, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		return m.statusErr
	}
	for _, ev := range m.events {
		if ev.ID == id {
			ev.Status = status
			ev.Error = errMsg
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockEventStore) List(_ context.Context, status domain.EventStatus, limit int) ([]domain.StoredStatusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StoredStatusEvent
	for _, ev := range m.events {
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

func (m *mockEventStore) Count(ctx context.Context, status domain.EventStatus) (int, error) {
	evs, err := m.List(ctx, status, 0)
	return len(evs), err
}

func (m *mockEventStore) children(parentID string) []domain.StoredStatusEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StoredStatusEvent
	for _, ev := range m.events {
		if ev.ParentID == parentID {
			out = append(out, *ev)
		}
	}
	return out
}

// mockHandler implements driven.EventHandler for testing.
// Events whose type is in expansions are expandable.
type mockHandler struct {
	code       string
	expansions map[domain.StatusEventType][]domain.StatusEvent

	// expandErrs are returned by successive Expand calls, then nil.
	expandErrs []error
	// iterErr stops iteration after the expansion's events.
	iterErr error

	expandCalls int
	closed      bool
	closeErr    error
}

var _ driven.EventHandler = (*mockHandler)(nil)

func newMockHandler(code string) *mockHandler {
	return &mockHandler{code: code, expansions: map[domain.StatusEventType][]domain.StatusEvent{}}
}

func (h *mockHandler) StorageCode() string { return h.code }

func (h *mockHandler) Load(_ context.Context, _ []domain.GUID, _ string) (*domain.SourceData, error) {
	return nil, errors.New("not implemented")
}

func (h *mockHandler) BuildReferencePaths(_ []domain.GUID, _ []domain.GUID) (map[string]string, error) {
	return nil, errors.New("not implemented")
}

func (h *mockHandler) ResolveReferences(
	_ context.Context, _ []domain.GUID, _ []domain.GUID,
) ([]domain.ResolvedReference, error) {
	return nil, errors.New("not implemented")
}

func (h *mockHandler) IsExpandable(ev domain.StoredStatusEvent) (bool, error) {
	if ev.Event.StorageCode != h.code {
		return false, domain.ErrStorageCodeMismatch
	}
	_, ok := h.expansions[ev.Event.EventType]
	return ok, nil
}

func (h *mockHandler) Expand(_ context.Context, ev domain.StoredStatusEvent) (driven.EventIterator, error) {
	h.expandCalls++
	if len(h.expandErrs) > 0 {
		err := h.expandErrs[0]
		h.expandErrs = h.expandErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	events, ok := h.expansions[ev.Event.EventType]
	if !ok {
		return driven.NewSliceIterator(ev.Event), nil
	}
	return &failingIterator{SliceIterator: driven.NewSliceIterator(events...), err: h.iterErr}, nil
}

func (h *mockHandler) Close() error {
	h.closed = true
	return h.closeErr
}

// failingIterator reports err once its events are exhausted.
type failingIterator struct {
	*driven.SliceIterator
	err  error
	done bool
}

func (it *failingIterator) Next(ctx context.Context) bool {
	if it.SliceIterator.Next(ctx) {
		return true
	}
	it.done = true
	return false
}

func (it *failingIterator) Err() error {
	if it.done {
		return it.err
	}
	return nil
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	data   map[string]any
	setErr error
}

var _ driven.ConfigStore = (*mockConfigStore)(nil)

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.data[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error  { return nil }
func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return "/tmp/config.toml" }
