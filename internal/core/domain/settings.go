package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Settings validation errors.
var (
	// ErrWorkspaceURLMissing indicates no workspace URL is configured.
	ErrWorkspaceURLMissing = errors.New("workspace url is not configured")

	// ErrWorkspaceURLInsecure indicates an http:// URL without insecure mode.
	ErrWorkspaceURLInsecure = errors.New("workspace url is http:// but insecure mode is off")
)

// Defaults for settings not present in the configuration file.
const (
	DefaultPageSize         = 10_000
	DefaultRateLimit        = 10.0
	DefaultResolveCacheSize = 1000
	DefaultRequestTimeout   = 5 * time.Minute
)

// WorkspaceSettings holds workspace connection configuration.
type WorkspaceSettings struct {
	// URL is the workspace service endpoint.
	URL string

	// Token is the workspace authentication token.
	Token string

	// Insecure permits http:// URLs.
	Insecure bool

	// PageSize is the number of object versions per listing page.
	PageSize int

	// RateLimit is the maximum requests per second. Zero disables throttling.
	RateLimit float64

	// ResolveCacheSize bounds the resolved-reference cache. Zero disables it.
	ResolveCacheSize int

	// Timeout bounds each request.
	Timeout time.Duration
}

// IsConfigured returns true if a URL and token are set.
func (w WorkspaceSettings) IsConfigured() bool {
	return w.URL != "" && w.Token != ""
}

// Values returns the settings as the flat key/value map connectors parse.
func (w WorkspaceSettings) Values() map[string]string {
	return map[string]string{
		"url":                w.URL,
		"token":              w.Token,
		"insecure":           strconv.FormatBool(w.Insecure),
		"page_size":          strconv.Itoa(w.PageSize),
		"rate_limit":         strconv.FormatFloat(w.RateLimit, 'f', -1, 64),
		"resolve_cache_size": strconv.Itoa(w.ResolveCacheSize),
		"timeout":            w.Timeout.String(),
	}
}

// Validate checks the URL is usable.
func (w WorkspaceSettings) Validate() error {
	if w.URL == "" {
		return ErrWorkspaceURLMissing
	}
	if strings.HasPrefix(strings.ToLower(w.URL), "http://") && !w.Insecure {
		return ErrWorkspaceURLInsecure
	}
	return nil
}

// StorageSettings holds local persistence configuration.
type StorageSettings struct {
	// DataDir holds the event queue database. Empty means the config directory.
	DataDir string
}

// IndexerSettings holds all application settings.
type IndexerSettings struct {
	// Workspace holds workspace connection settings.
	Workspace WorkspaceSettings

	// Processor holds event processing settings.
	Processor ProcessorConfig

	// Storage holds persistence settings.
	Storage StorageSettings
}

// DefaultIndexerSettings returns settings with sensible defaults.
// The workspace URL and token are left unset.
func DefaultIndexerSettings() IndexerSettings {
	return IndexerSettings{
		Workspace: WorkspaceSettings{
			PageSize:         DefaultPageSize,
			RateLimit:        DefaultRateLimit,
			ResolveCacheSize: DefaultResolveCacheSize,
			Timeout:          DefaultRequestTimeout,
		},
		Processor: DefaultProcessorConfig(),
	}
}
