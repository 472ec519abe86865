package services

import "github.com/prometheus/client_golang/prometheus"

// Result label values of ProcessedEvents.
const (
	resultExpanded  = "expanded"
	resultIndexable = "indexable"
	resultFailed    = "failed"
	resultAborted   = "aborted"
)

var ProcessedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sercha",
	Subsystem: "processor",
	Name:      "events_total",
	Help:      "Events taken from the queue, by outcome.",
}, []string{"result"})

var ExpandedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sercha",
	Subsystem: "processor",
	Name:      "expanded_events_total",
	Help:      "Granular events stored by expansion.",
}, []string{"storage_code"})

var Retries = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sercha",
	Subsystem: "processor",
	Name:      "retries_total",
	Help:      "Retries of failed event processing, by error kind.",
}, []string{"kind"})

var ProcessDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "sercha",
	Subsystem: "processor",
	Name:      "process_duration_seconds",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
}, []string{"result"})

// Collectors returns the processor metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{ProcessedEvents, ExpandedEvents, Retries, ProcessDuration}
}
