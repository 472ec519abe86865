package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driving"
)

// Ensure HandlerRegistry implements the interface.
var _ driving.HandlerRegistry = (*HandlerRegistry)(nil)

// HandlerRegistry holds one event handler per storage code.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]driven.EventHandler
}

// NewHandlerRegistry creates a registry with the given handlers.
func NewHandlerRegistry(handlers ...driven.EventHandler) (*HandlerRegistry, error) {
	r := &HandlerRegistry{handlers: make(map[string]driven.EventHandler)}
	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a handler under its storage code.
func (r *HandlerRegistry) Register(h driven.EventHandler) error {
	if h == nil {
		return fmt.Errorf("%w: nil handler", domain.ErrInvalidInput)
	}
	code := h.StorageCode()
	if code == "" {
		return fmt.Errorf("%w: handler has no storage code", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[code]; exists {
		return fmt.Errorf("handler for storage code %s already registered", code)
	}
	r.handlers[code] = h
	return nil
}

// Get returns the handler for a storage code.
func (r *HandlerRegistry) Get(storageCode string) (driven.EventHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[storageCode]
	if !ok {
		return nil, fmt.Errorf("%w: no handler for storage code %q", domain.ErrUnsupportedType, storageCode)
	}
	return h, nil
}

// StorageCodes returns the registered codes in sorted order.
func (r *HandlerRegistry) StorageCodes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.handlers))
	for code := range r.handlers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Close closes every registered handler, joining their errors.
func (r *HandlerRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for code, h := range r.handlers {
		if err := h.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s handler: %w", code, err))
		}
	}
	return errors.Join(errs...)
}
