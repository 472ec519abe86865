package workspace

import (
	"context"
	"strconv"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-indexer/internal/logger"
)

var (
	_ driven.EventIterator = (*objectIterator)(nil)
	_ driven.EventIterator = (*countIterator)(nil)
)

// objectIterator walks every object version of a workspace page by page.
//
// The workspace sorts listings by workspace asc, object id asc, version desc.
// A page that ends part way through an object drops that object and the next
// page restarts at it. A page holding nothing but versions of one object
// means the object has more versions than a page; the remaining versions are
// fetched in page-sized chunks walking down to version 1.
type objectIterator struct {
	client   Client
	source   domain.StatusEvent
	wsID     int
	pageSize int

	processed int64
	queue     []domain.StatusEvent
	walk      *versionWalk
	done      bool

	cur domain.StatusEvent
	err error
}

// versionWalk is a pending backward fetch of one object's versions.
// next is the exclusive upper bound of the next chunk.
type versionWalk struct {
	objID int64
	next  int
}

func newObjectIterator(client Client, source domain.StatusEvent, wsID, pageSize int) *objectIterator {
	return &objectIterator{
		client:   client,
		source:   source,
		wsID:     wsID,
		pageSize: pageSize,
	}
}

// Next advances to the next event, fetching a page when the queue is empty.
func (it *objectIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	for len(it.queue) == 0 {
		if it.done && it.walk == nil {
			return false
		}
		var err error
		if it.walk != nil {
			err = it.fillVersions(ctx)
		} else {
			err = it.fillQueue(ctx)
		}
		if err != nil {
			it.err = err
			return false
		}
	}
	it.cur = it.queue[0]
	it.queue = it.queue[1:]
	return true
}

// Event returns the current event.
func (it *objectIterator) Event() domain.StatusEvent {
	return it.cur
}

// Err returns the classified error that stopped iteration.
func (it *objectIterator) Err() error {
	return it.err
}

func (it *objectIterator) fillQueue(ctx context.Context) error {
	infos, err := listObjects(ctx, it.client, it.wsID, it.processed+1, it.pageSize)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		it.done = true
		return nil
	}
	events, err := buildEvents(it.source, infos, domain.EventNewVersion)
	if err != nil {
		return err
	}

	first := infos[0].ObjectID
	lastInfo := infos[len(infos)-1]
	last := lastInfo.ObjectID

	if first == last && len(infos) == it.pageSize && lastInfo.Version != 1 {
		it.queue = append(it.queue, events...)
		it.walk = &versionWalk{objID: first, next: lastInfo.Version}
		logger.Debug("workspace: object %d/%d fills a page, walking versions below %d", it.wsID, first, lastInfo.Version)
		it.processed = first
		return nil
	}

	// the trailing object may continue on the next page; drop it and
	// refetch it there rather than stitching versions across pages
	if lastInfo.Version != 1 {
		last--
	}
	if last <= it.processed {
		// a short page holding one object whose listing never reaches
		// version 1: there is no further page to defer it to
		last = lastInfo.ObjectID
		it.queue = append(it.queue, events...)
		it.processed = last
		return nil
	}
	for i, info := range infos {
		if info.ObjectID > last {
			break
		}
		it.queue = append(it.queue, events[i])
	}
	it.processed = last
	return nil
}

// fillVersions fetches the next chunk of versions [max(1, next-P), next).
func (it *objectIterator) fillVersions(ctx context.Context) error {
	w := it.walk
	start := max(1, w.next-it.pageSize)
	specs := make([]ObjectSpecification, 0, w.next-start)
	for ver := start; ver < w.next; ver++ {
		specs = append(specs, ObjectSpecification{WsID: it.wsID, ObjID: w.objID, Ver: ver})
	}
	infos, err := getObjectInfo(ctx, it.client, specs)
	if err != nil {
		return err
	}
	events, err := buildEvents(it.source, infos, domain.EventNewVersion)
	if err != nil {
		return err
	}
	it.queue = append(it.queue, events...)

	w.next -= it.pageSize
	if w.next <= 1 {
		it.walk = nil
	}
	return nil
}

// countIterator emits one event per object id in [1, max] without
// contacting the workspace. Versions are left unset.
type countIterator struct {
	source  domain.StatusEvent
	wsID    int
	max     int64
	counter int64
	newType domain.StatusEventType
}

func newCountIterator(
	source domain.StatusEvent, wsID int, maxObjectID int64, newType domain.StatusEventType,
) *countIterator {
	return &countIterator{source: source, wsID: wsID, max: maxObjectID, newType: newType}
}

// Next advances to the next object id.
func (it *countIterator) Next(_ context.Context) bool {
	if it.counter >= it.max {
		return false
	}
	it.counter++
	return true
}

// Event returns the event for the current object id.
func (it *countIterator) Event() domain.StatusEvent {
	return domain.NewStatusEvent(StorageCode, it.source.Timestamp, it.newType,
		domain.WithAccessGroupID(it.wsID),
		domain.WithObjectID(strconv.FormatInt(it.counter, 10)),
	)
}

// Err always returns nil.
func (it *countIterator) Err() error {
	return nil
}
