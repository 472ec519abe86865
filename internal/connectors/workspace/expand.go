package workspace

import (
	"context"
	"strconv"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-indexer/internal/logger"
)

var expandableTypes = map[domain.StatusEventType]struct{}{
	domain.EventNewAllVersions:       {},
	domain.EventCopyAccessGroup:      {},
	domain.EventDeleteAccessGroup:    {},
	domain.EventPublishAccessGroup:   {},
	domain.EventUnpublishAccessGroup: {},
}

// IsExpandable reports whether the event is a coarse workspace event.
func (h *Handler) IsExpandable(event domain.StoredStatusEvent) (bool, error) {
	if err := checkStorageCode(event.Event.StorageCode); err != nil {
		return false, err
	}
	_, ok := expandableTypes[event.Event.EventType]
	return ok, nil
}

// Expand splits a coarse workspace event into per-object or per-version
// events. The returned iterator may call the workspace lazily from Next.
func (h *Handler) Expand(ctx context.Context, event domain.StoredStatusEvent) (driven.EventIterator, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	if err := checkStorageCode(event.Event.StorageCode); err != nil {
		return nil, err
	}
	ev := event.Event
	logger.Debug("workspace: expanding %s", ev)

	switch ev.EventType {
	case domain.EventNewAllVersions:
		return h.handleNewAllVersions(ctx, ev)
	case domain.EventCopyAccessGroup:
		wsID, err := requireAccessGroup(ev)
		if err != nil {
			return nil, err
		}
		return newObjectIterator(h.client, ev, wsID, h.pageSize), nil
	case domain.EventPublishAccessGroup:
		return h.handlePublishAccessGroup(ctx, ev, domain.EventPublishAllVersions)
	case domain.EventUnpublishAccessGroup:
		return h.handlePublishAccessGroup(ctx, ev, domain.EventUnpublishAllVersions)
	case domain.EventDeleteAccessGroup:
		return handleDeleteAccessGroup(ev)
	default:
		return driven.NewSliceIterator(ev), nil
	}
}

func (h *Handler) handleNewAllVersions(ctx context.Context, ev domain.StatusEvent) (driven.EventIterator, error) {
	wsID, err := requireAccessGroup(ev)
	if err != nil {
		return nil, err
	}
	objID, err := parseObjectID(ev)
	if err != nil {
		return nil, err
	}
	infos, err := getObjectHistory(ctx, h.client, wsID, objID)
	if err != nil {
		return nil, err
	}
	events, err := buildEvents(ev, infos, domain.EventNewVersion)
	if err != nil {
		return nil, err
	}
	return driven.NewSliceIterator(events...), nil
}

func (h *Handler) handlePublishAccessGroup(
	ctx context.Context, ev domain.StatusEvent, newType domain.StatusEventType,
) (driven.EventIterator, error) {
	wsID, err := requireAccessGroup(ev)
	if err != nil {
		return nil, err
	}
	info, err := getWorkspaceInfo(ctx, h.client, wsID)
	if err != nil {
		return nil, err
	}
	return newCountIterator(ev, wsID, info.MaxObjectID, newType), nil
}

// handleDeleteAccessGroup needs no remote call: a deleted workspace cannot be
// queried, so the event carries the max object id in its object id field.
func handleDeleteAccessGroup(ev domain.StatusEvent) (driven.EventIterator, error) {
	wsID, err := requireAccessGroup(ev)
	if err != nil {
		return nil, err
	}
	maxID, err := parseObjectID(ev)
	if err != nil {
		return nil, err
	}
	return newCountIterator(ev, wsID, maxID, domain.EventDeleteAllVersions), nil
}

func requireAccessGroup(ev domain.StatusEvent) (int, error) {
	if ev.AccessGroupID == nil {
		return 0, domain.NewUnprocessableEventError(
			"Missing workspace id in "+string(ev.EventType)+" event", nil)
	}
	return *ev.AccessGroupID, nil
}

func parseObjectID(ev domain.StatusEvent) (int64, error) {
	if ev.ObjectID == nil {
		return 0, domain.NewUnprocessableEventError("Illegal workspace object id: <missing>", nil)
	}
	id, err := strconv.ParseInt(*ev.ObjectID, 10, 64)
	if err != nil {
		return 0, domain.NewUnprocessableEventError("Illegal workspace object id: "+*ev.ObjectID, err)
	}
	return id, nil
}

func buildEvents(
	source domain.StatusEvent, infos []ObjectInfo, newType domain.StatusEventType,
) ([]domain.StatusEvent, error) {
	events := make([]domain.StatusEvent, 0, len(infos))
	for _, info := range infos {
		ev, err := buildEvent(source, info, newType)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// buildEvent creates a per-version event. Timestamp and type come from the
// workspace; the access group and public flag are inherited from source.
func buildEvent(
	source domain.StatusEvent, info ObjectInfo, newType domain.StatusEventType,
) (domain.StatusEvent, error) {
	st, err := domain.ParseStorageObjectType(StorageCode, info.TypeString)
	if err != nil {
		return domain.StatusEvent{}, domain.NewUnprocessableEventError(
			"malformed object info from workspace: "+err.Error(), err)
	}
	ts, err := ParseDate(info.SaveDate)
	if err != nil {
		return domain.StatusEvent{}, domain.NewUnprocessableEventError(
			"malformed object info from workspace: "+err.Error(), err)
	}

	opts := []domain.EventOption{
		domain.WithObjectID(strconv.FormatInt(info.ObjectID, 10)),
		domain.WithVersion(info.Version),
		domain.WithObjectType(st),
	}
	if source.AccessGroupID != nil {
		opts = append(opts, domain.WithAccessGroupID(*source.AccessGroupID))
	}
	if source.IsPublic != nil {
		opts = append(opts, domain.WithPublic(*source.IsPublic))
	}
	return domain.NewStatusEvent(StorageCode, ts, newType, opts...), nil
}
