package driving

import "github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"

// HandlerRegistry maps storage codes to event handlers.
type HandlerRegistry interface {
	// Register adds a handler under its storage code.
	// Returns an error if a handler is already registered for the code.
	Register(h driven.EventHandler) error

	// Get returns the handler for a storage code.
	// Returns domain.ErrUnsupportedType if none is registered.
	Get(storageCode string) (driven.EventHandler, error)

	// StorageCodes returns the registered codes in sorted order.
	StorageCodes() []string

	// Close closes every registered handler.
	Close() error
}
