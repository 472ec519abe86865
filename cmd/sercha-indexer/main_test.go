package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-indexer/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-indexer/internal/adapters/driven/storage/sqlite"
)

func TestBuildServices_Unconfigured(t *testing.T) {
	svc, err := buildServices(t.TempDir())
	require.NoError(t, err)

	assert.NotNil(t, svc.Settings)
	assert.Nil(t, svc.Registry)
	assert.Nil(t, svc.Events)
	assert.Nil(t, svc.Close)
}

func TestBuildServices_Configured(t *testing.T) {
	dir := t.TempDir()
	cs, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, cs.Set("workspace.url", "https://ws.example.org/services/ws"))
	require.NoError(t, cs.Set("workspace.page_size", 100))

	svc, err := buildServices(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"WS"}, svc.Registry.StorageCodes())
	assert.NotNil(t, svc.Events)
	assert.NotNil(t, svc.Processor)
	assert.NotNil(t, svc.Scheduler)
	assert.FileExists(t, filepath.Join(dir, "data", sqlite.DBFile))
	require.NoError(t, svc.Close())
}

func TestBuildServices_InsecureURL(t *testing.T) {
	dir := t.TempDir()
	cs, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, cs.Set("workspace.url", "http://localhost:7058"))

	_, err = buildServices(dir)
	assert.Error(t, err)
}
