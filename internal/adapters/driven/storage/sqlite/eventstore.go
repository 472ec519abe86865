package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
)

// eventStore implements driven.EventStore.
type eventStore struct {
	store *Store
}

var _ driven.EventStore = (*eventStore)(nil)

const eventColumns = "id, parent_id, event, status, error, updated_at"

// eventRecord is the JSON form of a domain.StatusEvent.
type eventRecord struct {
	StorageCode   string            `json:"storage_code"`
	EventType     string            `json:"event_type"`
	Timestamp     time.Time         `json:"timestamp"`
	AccessGroupID *int              `json:"access_group_id,omitempty"`
	ObjectID      *string           `json:"object_id,omitempty"`
	Version       *int              `json:"version,omitempty"`
	IsPublic      *bool             `json:"is_public,omitempty"`
	ObjectType    *objectTypeRecord `json:"object_type,omitempty"`
	NewName       *string           `json:"new_name,omitempty"`
}

type objectTypeRecord struct {
	StorageCode string `json:"storage_code"`
	Type        string `json:"type"`
	Version     *int   `json:"version,omitempty"`
}

func toRecord(e domain.StatusEvent) eventRecord {
	r := eventRecord{
		StorageCode:   e.StorageCode,
		EventType:     string(e.EventType),
		Timestamp:     e.Timestamp.UTC(),
		AccessGroupID: e.AccessGroupID,
		ObjectID:      e.ObjectID,
		Version:       e.Version,
		IsPublic:      e.IsPublic,
		NewName:       e.NewName,
	}
	if t := e.StorageObjectType; t != nil {
		r.ObjectType = &objectTypeRecord{StorageCode: t.StorageCode, Type: t.Type, Version: t.Version}
	}
	return r
}

func (r eventRecord) toEvent() domain.StatusEvent {
	e := domain.StatusEvent{
		StorageCode:   r.StorageCode,
		EventType:     domain.StatusEventType(r.EventType),
		Timestamp:     r.Timestamp,
		AccessGroupID: r.AccessGroupID,
		ObjectID:      r.ObjectID,
		Version:       r.Version,
		IsPublic:      r.IsPublic,
		NewName:       r.NewName,
	}
	if t := r.ObjectType; t != nil {
		e.StorageObjectType = &domain.StorageObjectType{StorageCode: t.StorageCode, Type: t.Type, Version: t.Version}
	}
	return e
}

// Add stores a new READY event.
func (s *eventStore) Add(ctx context.Context, event domain.StatusEvent, parentID string) (*domain.StoredStatusEvent, error) {
	eventJSON, err := json.Marshal(toRecord(event))
	if err != nil {
		return nil, fmt.Errorf("marshalling event: %w", err)
	}

	stored := &domain.StoredStatusEvent{
		ID:        uuid.New().String(),
		Event:     event,
		Status:    domain.StatusReady,
		ParentID:  parentID,
		UpdatedAt: time.Now().UTC(),
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO events (id, parent_id, storage_code, event_type, event, status, error, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL, ?)
	`, stored.ID, nullString(parentID), event.StorageCode, string(event.EventType),
		string(eventJSON), string(stored.Status), stored.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("saving event: %w", err)
	}
	return stored, nil
}

// DeleteChildren removes the events expanded from parentID.
func (s *eventStore) DeleteChildren(ctx context.Context, parentID string) (int, error) {
	if parentID == "" {
		return 0, nil
	}
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM events WHERE parent_id = ?", parentID)
	if err != nil {
		return 0, fmt.Errorf("deleting child events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted events: %w", err)
	}
	return int(n), nil
}

// Get retrieves an event by ID.
func (s *eventStore) Get(ctx context.Context, id string) (*domain.StoredStatusEvent, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	return scanEvent(row)
}

// NextReady returns the oldest READY event.
func (s *eventStore) NextReady(ctx context.Context) (*domain.StoredStatusEvent, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE status = ? ORDER BY seq LIMIT 1",
		string(domain.StatusReady))
	ev, err := scanEvent(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoReadyEvents
	}
	return ev, err
}

// SetStatus updates an event's status.
func (s *eventStore) SetStatus(ctx context.Context, id string, status domain.EventStatus, errMsg string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE events SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, string(status), nullString(errMsg), time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("updating event status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating event status: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns events in insertion order, optionally filtered by status.
// A non-positive limit returns all matches.
func (s *eventStore) List(ctx context.Context, status domain.EventStatus, limit int) ([]domain.StoredStatusEvent, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE ? = '' OR status = ?
		ORDER BY seq
		LIMIT ?
	`, string(status), string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []domain.StoredStatusEvent //nolint:prealloc // size unknown from query
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// Count returns the number of events with the given status.
func (s *eventStore) Count(ctx context.Context, status domain.EventStatus) (int, error) {
	var n int
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events WHERE ? = '' OR status = ?", string(status), string(status))
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.StoredStatusEvent, error) {
	var (
		ev        domain.StoredStatusEvent
		parentID  sql.NullString
		eventJSON string
		status    string
		errMsg    sql.NullString
		updatedAt string
	)
	if err := row.Scan(&ev.ID, &parentID, &eventJSON, &status, &errMsg, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}

	var rec eventRecord
	if err := json.Unmarshal([]byte(eventJSON), &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling event %s: %w", ev.ID, err)
	}
	ev.Event = rec.toEvent()
	ev.Status = domain.EventStatus(status)
	ev.ParentID = parentID.String
	ev.Error = errMsg.String

	t, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing event %s update time: %w", ev.ID, err)
	}
	ev.UpdatedAt = t
	return &ev, nil
}
