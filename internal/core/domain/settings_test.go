package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIndexerSettings(t *testing.T) {
	s := DefaultIndexerSettings()

	assert.Empty(t, s.Workspace.URL)
	assert.False(t, s.Workspace.IsConfigured())
	assert.Equal(t, 10_000, s.Workspace.PageSize)
	assert.Equal(t, 1000, s.Workspace.ResolveCacheSize)
	assert.Equal(t, 5, s.Processor.MaxRetries)
	assert.Empty(t, s.Storage.DataDir)
}

func TestWorkspaceSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings WorkspaceSettings
		wantErr  error
	}{
		{"https", WorkspaceSettings{URL: "https://ws"}, nil},
		{"missing url", WorkspaceSettings{}, ErrWorkspaceURLMissing},
		{"http rejected", WorkspaceSettings{URL: "HTTP://ws"}, ErrWorkspaceURLInsecure},
		{"http allowed", WorkspaceSettings{URL: "http://ws", Insecure: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestWorkspaceSettings_Values(t *testing.T) {
	w := WorkspaceSettings{
		URL:              "https://ws",
		Token:            "tok",
		PageSize:         50,
		RateLimit:        2.5,
		ResolveCacheSize: 0,
		Timeout:          90 * time.Second,
	}

	assert.Equal(t, map[string]string{
		"url":                "https://ws",
		"token":              "tok",
		"insecure":           "false",
		"page_size":          "50",
		"rate_limit":         "2.5",
		"resolve_cache_size": "0",
		"timeout":            "1m30s",
	}, w.Values())
}

func TestProcessorConfig_Backoff_Settings(t *testing.T) {
	c := ProcessorConfig{BackoffInitial: time.Second, BackoffMax: 10 * time.Second}

	assert.Equal(t, time.Second, c.Backoff(0))
	assert.Equal(t, 2*time.Second, c.Backoff(1))
	assert.Equal(t, 8*time.Second, c.Backoff(3))
	assert.Equal(t, 10*time.Second, c.Backoff(4))
	assert.Equal(t, 10*time.Second, c.Backoff(60))

	assert.Equal(t, time.Duration(0), ProcessorConfig{}.Backoff(3))
}

func TestProcessStats_Add_Settings(t *testing.T) {
	var s ProcessStats
	s.Add(&ProcessResult{Status: StatusProcessed, Children: 3})
	s.Add(&ProcessResult{Status: StatusIndexable})
	s.Add(&ProcessResult{Status: StatusFailed})
	s.Add(nil)

	assert.Equal(t, ProcessStats{Processed: 3, Expanded: 1, Indexable: 1, Failed: 1, Children: 3}, s)
}
