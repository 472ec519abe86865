package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-indexer/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler drains the event queue on a fixed interval.
// It is a pure core service with no external control API.
type Scheduler struct {
	interval  time.Duration
	processor driving.EventProcessor

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewScheduler creates a scheduler. A non-positive interval uses the
// default poll interval.
func NewScheduler(interval time.Duration, processor driving.EventProcessor) *Scheduler {
	if interval <= 0 {
		interval = domain.DefaultProcessorConfig().PollInterval
	}
	return &Scheduler{interval: interval, processor: processor}
}

// Start drains the queue immediately and then on every tick. It returns
// when ctx is cancelled, Stop is called, or a run aborts with a fatal or
// unclassified error. Retriable failures wait for the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	stopCh, done := s.stopCh, s.done
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		close(done)
	}()

	if err := s.drain(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			if err := s.drain(ctx); err != nil {
				return err
			}
		}
	}
}

// Stop gracefully shuts down the scheduler, waiting for the current run.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	done := s.done
	s.mu.Unlock()

	<-done
	return nil
}

func (s *Scheduler) drain(ctx context.Context) error {
	stats, err := s.processor.Run(ctx)
	if stats.Processed > 0 {
		logger.Info("scheduler: processed %d events (%d expanded into %d, %d indexable, %d failed)",
			stats.Processed, stats.Expanded, stats.Children, stats.Indexable, stats.Failed)
	}
	if err != nil && domain.IsRetriable(err) {
		// the event stays READY and is picked up again on the next tick
		logger.Warn("scheduler: workspace unavailable, retrying in %s: %v", s.interval, err)
		return nil
	}
	if err != nil {
		logger.Error("scheduler: processing stopped: %v", err)
	}
	return err
}
