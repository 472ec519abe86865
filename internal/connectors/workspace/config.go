package workspace

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPageSize is the workspace's listObjects page size.
	DefaultPageSize = 10_000

	// DefaultRequestsPerSecond is the proactive throttle rate.
	DefaultRequestsPerSecond = 10.0

	// DefaultResolveCacheSize is the number of resolved references kept.
	DefaultResolveCacheSize = 1000

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 5 * time.Minute
)

// Config holds the parsed configuration for the workspace connector.
type Config struct {
	// URL is the workspace service endpoint.
	URL string

	// Token is the workspace authentication token.
	Token string

	// AllowInsecure permits http:// URLs.
	AllowInsecure bool

	// PageSize is the number of object versions requested per listing page.
	PageSize int

	// RequestsPerSecond throttles calls. Zero or less disables throttling.
	RequestsPerSecond float64

	// ResolveCacheSize bounds the resolved-reference cache. Zero disables it.
	ResolveCacheSize int

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// DefaultConfig returns a Config with defaults and no URL.
func DefaultConfig() *Config {
	return &Config{
		PageSize:          DefaultPageSize,
		RequestsPerSecond: DefaultRequestsPerSecond,
		ResolveCacheSize:  DefaultResolveCacheSize,
		Timeout:           DefaultTimeout,
	}
}

// ParseConfig parses a flat key/value map into a Config.
// Recognised keys: url, token, insecure, page_size, rate_limit,
// resolve_cache_size, timeout. Only url is required.
func ParseConfig(values map[string]string) (*Config, error) {
	cfg := DefaultConfig()

	cfg.URL = strings.TrimSpace(values["url"])
	if cfg.URL == "" {
		return nil, ErrConfigMissingURL
	}
	cfg.Token = strings.TrimSpace(values["token"])

	if v, ok := values["insecure"]; ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("workspace: insecure: %w", err)
		}
		cfg.AllowInsecure = b
	}

	if v, ok := values["page_size"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("workspace: page_size must be a positive integer, got %q", v)
		}
		cfg.PageSize = n
	}

	if v, ok := values["rate_limit"]; ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("workspace: rate_limit: %w", err)
		}
		cfg.RequestsPerSecond = f
	}

	if v, ok := values["resolve_cache_size"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("workspace: resolve_cache_size must be a non-negative integer, got %q", v)
		}
		cfg.ResolveCacheSize = n
	}

	if v, ok := values["timeout"]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("workspace: timeout: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}
