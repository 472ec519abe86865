package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyWorkspaceURL       = "workspace.url"
	keyWorkspaceToken     = "workspace.token"
	keyWorkspaceInsecure  = "workspace.insecure"
	keyWorkspacePageSize  = "workspace.page_size"
	keyWorkspaceRateLimit = "workspace.rate_limit"
	keyWorkspaceCacheSize = "workspace.resolve_cache_size"
	keyWorkspaceTimeout   = "workspace.timeout"
	keyMaxRetries         = "processor.max_retries"
	keyBackoffInitial     = "processor.backoff_initial"
	keyBackoffMax         = "processor.backoff_max"
	keyPollInterval       = "processor.poll_interval"
	keyDataDir            = "storage.data_dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.IndexerSettings, error) {
	d := domain.DefaultIndexerSettings()

	timeout, err := s.getDuration(keyWorkspaceTimeout, d.Workspace.Timeout)
	if err != nil {
		return nil, err
	}
	backoffInitial, err := s.getDuration(keyBackoffInitial, d.Processor.BackoffInitial)
	if err != nil {
		return nil, err
	}
	backoffMax, err := s.getDuration(keyBackoffMax, d.Processor.BackoffMax)
	if err != nil {
		return nil, err
	}
	poll, err := s.getDuration(keyPollInterval, d.Processor.PollInterval)
	if err != nil {
		return nil, err
	}

	return &domain.IndexerSettings{
		Workspace: domain.WorkspaceSettings{
			URL:              s.configStore.GetString(keyWorkspaceURL),
			Token:            s.configStore.GetString(keyWorkspaceToken),
			Insecure:         s.configStore.GetBool(keyWorkspaceInsecure),
			PageSize:         s.getInt(keyWorkspacePageSize, d.Workspace.PageSize),
			RateLimit:        s.getFloat(keyWorkspaceRateLimit, d.Workspace.RateLimit),
			ResolveCacheSize: s.getInt(keyWorkspaceCacheSize, d.Workspace.ResolveCacheSize),
			Timeout:          timeout,
		},
		Processor: domain.ProcessorConfig{
			MaxRetries:     s.getInt(keyMaxRetries, d.Processor.MaxRetries),
			BackoffInitial: backoffInitial,
			BackoffMax:     backoffMax,
			PollInterval:   poll,
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyDataDir),
		},
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.IndexerSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyWorkspaceURL, settings.Workspace.URL},
		{keyWorkspaceInsecure, settings.Workspace.Insecure},
		{keyWorkspacePageSize, settings.Workspace.PageSize},
		{keyWorkspaceRateLimit, settings.Workspace.RateLimit},
		{keyWorkspaceCacheSize, settings.Workspace.ResolveCacheSize},
		{keyWorkspaceTimeout, settings.Workspace.Timeout.String()},
		{keyMaxRetries, settings.Processor.MaxRetries},
		{keyBackoffInitial, settings.Processor.BackoffInitial.String()},
		{keyBackoffMax, settings.Processor.BackoffMax.String()},
		{keyPollInterval, settings.Processor.PollInterval.String()},
		{keyDataDir, settings.Storage.DataDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	// only overwrite a stored token with a new one
	if settings.Workspace.Token != "" {
		if err := s.configStore.Set(keyWorkspaceToken, settings.Workspace.Token); err != nil {
			return fmt.Errorf("save %s: %w", keyWorkspaceToken, err)
		}
	}
	return nil
}

// SetWorkspaceURL updates the workspace endpoint.
func (s *SettingsService) SetWorkspaceURL(url string) error {
	if url == "" {
		return domain.ErrWorkspaceURLMissing
	}
	if err := s.configStore.Set(keyWorkspaceURL, url); err != nil {
		return fmt.Errorf("save %s: %w", keyWorkspaceURL, err)
	}
	return nil
}

// SetToken stores the workspace token.
func (s *SettingsService) SetToken(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyWorkspaceToken, token); err != nil {
		return fmt.Errorf("save %s: %w", keyWorkspaceToken, err)
	}
	return nil
}

// Validate checks the current settings can be used to connect.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Workspace.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.IndexerSettings {
	return domain.DefaultIndexerSettings()
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return def
	}
	// TOML numbers without a fraction decode as int64
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return def
	}
}

func (s *SettingsService) getDuration(key string, def time.Duration) (time.Duration, error) {
	str := s.configStore.GetString(key)
	if str == "" {
		return def, nil
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return d, nil
}
