package workspace

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
)

// StorageCode is the storage code of workspace events.
const StorageCode = "WS"

// Ensure Handler implements the interface.
var _ driven.EventHandler = (*Handler)(nil)

// Handler handles events generated by the workspace service.
type Handler struct {
	client   Client
	pageSize int
	cache    *lru.Cache[string, domain.ResolvedReference]

	mu     sync.Mutex
	closed bool
}

// New creates a workspace event handler. A nil cfg uses DefaultConfig.
func New(client Client, cfg *Config) (*Handler, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: workspace client is nil", domain.ErrInvalidInput)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	h := &Handler{
		client:   client,
		pageSize: cfg.PageSize,
	}
	if h.pageSize < 1 {
		h.pageSize = DefaultPageSize
	}
	if cfg.ResolveCacheSize > 0 {
		cache, err := lru.New[string, domain.ResolvedReference](cfg.ResolveCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create resolve cache: %w", err)
		}
		h.cache = cache
	}
	return h, nil
}

// StorageCode returns the workspace storage code.
func (h *Handler) StorageCode() string {
	return StorageCode
}

// Close releases resources.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	if h.cache != nil {
		h.cache.Purge()
	}
	return nil
}

func (h *Handler) checkOpen() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return domain.ErrHandlerClosed
	}
	return nil
}
