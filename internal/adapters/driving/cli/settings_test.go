package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "****"},
		{"abc123", "****"},
		{"12345678", "****"},
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZ", "ABCD...WXYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskToken(tt.input))
		})
	}
}

func TestSettingsShow(t *testing.T) {
	env := newTestEnv(t)

	out, err := execute(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "URL: (not set)")
	assert.Contains(t, out, "Token: (not set)")
	assert.Contains(t, out, "Page size: 10000")
	assert.Contains(t, out, "Status: workspace url is not configured")
	assert.Contains(t, out, "Max retries: 5")

	require.NoError(t, env.settings.SetWorkspaceURL("https://ws.example.org"))
	require.NoError(t, env.settings.SetToken("ABCDEFGHIJKLMNOP"))

	out, err = execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "URL: https://ws.example.org")
	assert.Contains(t, out, "Token: ABCD...MNOP")
	assert.NotContains(t, out, "Status:")
}

func TestSettingsURL(t *testing.T) {
	env := newTestEnv(t)

	out, err := execute(t, "settings", "url", "http://localhost:7058")
	require.NoError(t, err)
	assert.Contains(t, out, "Workspace URL set to http://localhost:7058")
	assert.Contains(t, out, "Warning: workspace url is http://")

	s, err := env.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7058", s.Workspace.URL)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	old := readToken
	t.Cleanup(func() { readToken = old })

	readToken = func() string { return "  secret-token \n" }
	out, err := execute(t, "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Token stored.")

	s, err := env.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", s.Workspace.Token)

	readToken = func() string { return "" }
	_, err = execute(t, "login")
	assert.Error(t, err)
}

func TestSettings_NotConfigured(t *testing.T) {
	withServices(t, &Services{})

	for _, args := range [][]string{{"settings"}, {"settings", "url", "https://x"}, {"login"}} {
		_, err := execute(t, args...)
		assert.ErrorIs(t, err, errNoSettings, "%v", args)
	}
}
