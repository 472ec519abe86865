// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The EventProcessor drains the event queue: coarse events are expanded
// through the handler registered for their storage code, and failures are
// retried, failed, or escalated according to their error kind.
package services
