package driving

import "github.com/custodia-labs/sercha-indexer/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filling defaults for unset keys.
	Get() (*domain.IndexerSettings, error)

	// Save persists settings.
	Save(settings *domain.IndexerSettings) error

	// SetWorkspaceURL updates the workspace endpoint.
	SetWorkspaceURL(url string) error

	// SetToken stores the workspace token.
	SetToken(token string) error

	// Validate checks the current settings can be used to connect.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.IndexerSettings
}
