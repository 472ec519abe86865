package domain

import "time"

// ProcessorConfig controls how the event processor retries failures.
type ProcessorConfig struct {
	// MaxRetries is the number of retries after the first attempt for
	// retriable failures. Zero disables retrying.
	MaxRetries int

	// BackoffInitial is the delay before the first retry.
	BackoffInitial time.Duration

	// BackoffMax caps the delay between retries.
	BackoffMax time.Duration

	// PollInterval is how often the scheduler drains the queue.
	PollInterval time.Duration
}

// DefaultProcessorConfig returns the default processor configuration.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		MaxRetries:     5,
		BackoffInitial: time.Second,
		BackoffMax:     time.Minute,
		PollInterval:   30 * time.Second,
	}
}

// Backoff returns the delay before retry number attempt (0-based):
// BackoffInitial doubled per attempt, capped at BackoffMax when it is set.
func (c ProcessorConfig) Backoff(attempt int) time.Duration {
	d := c.BackoffInitial
	for i := 0; i < attempt; i++ {
		if c.BackoffMax > 0 && d >= c.BackoffMax {
			break
		}
		d *= 2
	}
	if c.BackoffMax > 0 && d > c.BackoffMax {
		d = c.BackoffMax
	}
	return d
}

// ProcessResult describes what happened to one event.
type ProcessResult struct {
	// EventID is the processed event.
	EventID string

	// Status is the event's new status. READY means it was left in place.
	Status EventStatus

	// Children is the number of granular events stored by expansion.
	Children int

	// Retries is the number of retries made.
	Retries int

	// Error is the failure message, if any.
	Error string
}

// ProcessStats summarises a processing run.
type ProcessStats struct {
	Processed int
	Expanded  int
	Indexable int
	Failed    int
	Children  int
}

// Add records one result.
func (s *ProcessStats) Add(r *ProcessResult) {
	if r == nil {
		return
	}
	s.Processed++
	s.Children += r.Children
	switch r.Status {
	case StatusProcessed:
		s.Expanded++
	case StatusIndexable:
		s.Indexable++
	case StatusFailed:
		s.Failed++
	}
}
