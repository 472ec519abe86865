package domain

import (
	"fmt"
	"time"
)

// StatusEventType is the kind of change a status event describes.
type StatusEventType string

// Coarse events describe bulk changes and are expanded into granular,
// per-object or per-version events before indexing.
const (
	EventNewVersion           StatusEventType = "NEW_VERSION"
	EventNewAllVersions       StatusEventType = "NEW_ALL_VERSIONS"
	EventCopyAccessGroup      StatusEventType = "COPY_ACCESS_GROUP"
	EventDeleteAllVersions    StatusEventType = "DELETE_ALL_VERSIONS"
	EventDeleteAccessGroup    StatusEventType = "DELETE_ACCESS_GROUP"
	EventPublishAccessGroup   StatusEventType = "PUBLISH_ACCESS_GROUP"
	EventUnpublishAccessGroup StatusEventType = "UNPUBLISH_ACCESS_GROUP"
	EventPublishAllVersions   StatusEventType = "PUBLISH_ALL_VERSIONS"
	EventUnpublishAllVersions StatusEventType = "UNPUBLISH_ALL_VERSIONS"
	EventRenameAllVersions    StatusEventType = "RENAME_ALL_VERSIONS"
	EventUndeleteAllVersions  StatusEventType = "UNDELETE_ALL_VERSIONS"
)

var statusEventTypes = map[StatusEventType]struct{}{
	EventNewVersion:           {},
	EventNewAllVersions:       {},
	EventCopyAccessGroup:      {},
	EventDeleteAllVersions:    {},
	EventDeleteAccessGroup:    {},
	EventPublishAccessGroup:   {},
	EventUnpublishAccessGroup: {},
	EventPublishAllVersions:   {},
	EventUnpublishAllVersions: {},
	EventRenameAllVersions:    {},
	EventUndeleteAllVersions:  {},
}

// ParseStatusEventType validates an event type name.
func ParseStatusEventType(s string) (StatusEventType, error) {
	t := StatusEventType(s)
	if _, ok := statusEventTypes[t]; !ok {
		return "", fmt.Errorf("%w: event type %q", ErrUnsupportedType, s)
	}
	return t, nil
}

// StatusEvent is a change notification from a storage system. Coarse and
// granular events share this shape. Values are not modified after construction.
type StatusEvent struct {
	// StorageCode identifies the storage system that emitted the event.
	StorageCode string

	// EventType is the kind of change.
	EventType StatusEventType

	// Timestamp is when the change happened.
	Timestamp time.Time

	// AccessGroupID is the container id, if the event concerns a container.
	AccessGroupID *int

	// ObjectID is the object id. For DELETE_ACCESS_GROUP it carries the
	// container's maximum object id.
	ObjectID *string

	// Version is the object version for per-version events.
	Version *int

	// IsPublic reports whether the container is publicly readable.
	IsPublic *bool

	// StorageObjectType is the object's type, when known.
	StorageObjectType *StorageObjectType

	// NewName is the new object name for rename events.
	NewName *string
}

// EventOption sets an optional field of a StatusEvent.
type EventOption func(*StatusEvent)

// WithAccessGroupID sets the container id.
func WithAccessGroupID(id int) EventOption {
	return func(e *StatusEvent) { e.AccessGroupID = &id }
}

// WithObjectID sets the object id.
func WithObjectID(id string) EventOption {
	return func(e *StatusEvent) { e.ObjectID = &id }
}

// WithVersion sets the object version.
func WithVersion(v int) EventOption {
	return func(e *StatusEvent) { e.Version = &v }
}

// WithPublic sets the public flag.
func WithPublic(public bool) EventOption {
	return func(e *StatusEvent) { e.IsPublic = &public }
}

// WithObjectType sets the storage object type.
func WithObjectType(t StorageObjectType) EventOption {
	return func(e *StatusEvent) { e.StorageObjectType = &t }
}

// WithNewName sets the new name of a renamed object.
func WithNewName(name string) EventOption {
	return func(e *StatusEvent) { e.NewName = &name }
}

// NewStatusEvent creates an event. Options that are nil are skipped.
func NewStatusEvent(
	storageCode string, timestamp time.Time, eventType StatusEventType, opts ...EventOption,
) StatusEvent {
	e := StatusEvent{
		StorageCode: storageCode,
		EventType:   eventType,
		Timestamp:   timestamp,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&e)
		}
	}
	return e
}

// String summarises the event for logs.
func (e StatusEvent) String() string {
	s := fmt.Sprintf("%s %s", e.StorageCode, e.EventType)
	if e.AccessGroupID != nil {
		s += fmt.Sprintf(" ag=%d", *e.AccessGroupID)
	}
	if e.ObjectID != nil {
		s += " obj=" + *e.ObjectID
	}
	if e.Version != nil {
		s += fmt.Sprintf(" ver=%d", *e.Version)
	}
	return s
}

// EventStatus is the processing state of a stored event.
type EventStatus string

const (
	// StatusUnprocessed is an event not yet released for processing.
	StatusUnprocessed EventStatus = "UNPROC"

	// StatusReady is an event waiting to be processed.
	StatusReady EventStatus = "READY"

	// StatusProcessed is a coarse event whose expansion was stored.
	StatusProcessed EventStatus = "PROC"

	// StatusIndexable is a granular event handed on to the indexer.
	StatusIndexable EventStatus = "INDX"

	// StatusFailed is an event that cannot be processed.
	StatusFailed EventStatus = "FAIL"
)

// ParseEventStatus validates a status name.
func ParseEventStatus(s string) (EventStatus, error) {
	switch st := EventStatus(s); st {
	case StatusUnprocessed, StatusReady, StatusProcessed, StatusIndexable, StatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("%w: event status %q", ErrInvalidInput, s)
}

// StoredStatusEvent is a status event held in the event queue.
type StoredStatusEvent struct {
	// ID is the queue-assigned id.
	ID string

	// Event is the stored event.
	Event StatusEvent

	// Status is the processing state.
	Status EventStatus

	// ParentID is the id of the coarse event this event was expanded from.
	ParentID string

	// Error is the failure message for FAIL events.
	Error string

	// UpdatedAt is when the status last changed.
	UpdatedAt time.Time
}
