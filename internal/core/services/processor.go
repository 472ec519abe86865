package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-indexer/internal/logger"
)

// Ensure EventProcessor implements the interface.
var _ driving.EventProcessor = (*EventProcessor)(nil)

// EventProcessor drains the event queue one event at a time.
//
// Coarse events are expanded and their granular events queued as READY
// children; the coarse event becomes PROC. Granular events become INDX for
// the indexer. Failures are handled by kind:
//
//   - fatal: processing stops, the event stays READY
//   - fatal retriable, retriable: retried with backoff, then processing stops
//   - unprocessable: the event becomes FAIL and processing continues
//
// Errors that carry no kind are local failures and stop processing.
type EventProcessor struct {
	store    driven.EventStore
	registry driving.HandlerRegistry
	config   domain.ProcessorConfig

	// sleep waits between retries. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewEventProcessor creates an event processor.
func NewEventProcessor(
	store driven.EventStore,
	registry driving.HandlerRegistry,
	config domain.ProcessorConfig,
) *EventProcessor {
	return &EventProcessor{
		store:    store,
		registry: registry,
		config:   config,
		sleep:    sleepContext,
	}
}

// ProcessNext processes the oldest READY event.
func (p *EventProcessor) ProcessNext(ctx context.Context) (*domain.ProcessResult, error) {
	ev, err := p.store.NextReady(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := p.process(ctx, ev)

	label := resultLabel(result, err)
	ProcessedEvents.WithLabelValues(label).Inc()
	ProcessDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	return result, err
}

// Run processes events until the queue is empty or processing stops.
func (p *EventProcessor) Run(ctx context.Context) (domain.ProcessStats, error) {
	var stats domain.ProcessStats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		result, err := p.ProcessNext(ctx)
		if errors.Is(err, domain.ErrNoReadyEvents) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		stats.Add(result)
	}
}

func (p *EventProcessor) process(ctx context.Context, ev *domain.StoredStatusEvent) (*domain.ProcessResult, error) {
	result := &domain.ProcessResult{EventID: ev.ID, Status: domain.StatusReady}

	h, err := p.registry.Get(ev.Event.StorageCode)
	if err != nil {
		return p.fail(ctx, result, err)
	}

	// children left by an interrupted earlier run
	if err := p.rollback(ctx, ev.ID); err != nil {
		return result, err
	}

	for attempt := 0; ; attempt++ {
		err := p.handle(ctx, h, ev, result)
		if err == nil {
			return result, nil
		}
		if rbErr := p.rollback(ctx, ev.ID); rbErr != nil {
			return result, errors.Join(err, rbErr)
		}

		kind, classified := domain.KindOf(err)
		switch {
		case classified && kind == domain.KindUnprocessableEvent:
			return p.fail(ctx, result, err)

		case classified && kind.Retriable() && attempt < p.config.MaxRetries:
			Retries.WithLabelValues(kind.String()).Inc()
			result.Retries++
			delay := p.config.Backoff(attempt)
			logger.Warn("event %s: %v (retry %d/%d in %s)", ev.ID, err, attempt+1, p.config.MaxRetries, delay)
			if err := p.sleep(ctx, delay); err != nil {
				result.Error = err.Error()
				return result, err
			}

		default:
			result.Error = err.Error()
			logger.Error("event %s: %v", ev.ID, err)
			return result, fmt.Errorf("process event %s: %w", ev.ID, err)
		}
	}
}

// handle makes one attempt at an event.
func (p *EventProcessor) handle(
	ctx context.Context, h driven.EventHandler, ev *domain.StoredStatusEvent, result *domain.ProcessResult,
) error {
	expandable, err := h.IsExpandable(*ev)
	if err != nil {
		return err
	}
	if !expandable {
		if err := p.store.SetStatus(ctx, ev.ID, domain.StatusIndexable, ""); err != nil {
			return fmt.Errorf("mark indexable: %w", err)
		}
		result.Status = domain.StatusIndexable
		logger.Debug("event %s: indexable", ev.ID)
		return nil
	}

	it, err := h.Expand(ctx, *ev)
	if err != nil {
		return err
	}
	children := 0
	for it.Next(ctx) {
		child := it.Event()
		if reflect.DeepEqual(child, ev.Event) {
			continue
		}
		if _, err := p.store.Add(ctx, child, ev.ID); err != nil {
			return fmt.Errorf("store expanded event: %w", err)
		}
		children++
	}
	if err := it.Err(); err != nil {
		return err
	}

	if err := p.store.SetStatus(ctx, ev.ID, domain.StatusProcessed, ""); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	ExpandedEvents.WithLabelValues(ev.Event.StorageCode).Add(float64(children))
	result.Status = domain.StatusProcessed
	result.Children = children
	logger.Info("event %s: expanded %s into %d events", ev.ID, ev.Event.EventType, children)
	return nil
}

// rollback removes children stored by a failed attempt so a retry or a
// later run does not queue them twice.
func (p *EventProcessor) rollback(ctx context.Context, id string) error {
	n, err := p.store.DeleteChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("remove partial expansion of %s: %w", id, err)
	}
	if n > 0 {
		logger.Debug("event %s: removed %d partially expanded events", id, n)
	}
	return nil
}

// fail marks the event FAIL. Processing continues with other events.
func (p *EventProcessor) fail(ctx context.Context, result *domain.ProcessResult, cause error) (*domain.ProcessResult, error) {
	if err := p.store.SetStatus(ctx, result.EventID, domain.StatusFailed, cause.Error()); err != nil {
		return result, fmt.Errorf("mark failed: %w", err)
	}
	result.Status = domain.StatusFailed
	result.Error = cause.Error()
	logger.Warn("event %s failed: %v", result.EventID, cause)
	return result, nil
}

func resultLabel(r *domain.ProcessResult, err error) string {
	if err != nil || r == nil {
		return resultAborted
	}
	switch r.Status {
	case domain.StatusProcessed:
		return resultExpanded
	case domain.StatusIndexable:
		return resultIndexable
	case domain.StatusFailed:
		return resultFailed
	default:
		return resultAborted
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
