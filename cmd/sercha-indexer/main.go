// Command sercha-indexer expands workspace change events for indexing.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/sercha-indexer/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-indexer/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-indexer/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-indexer/internal/connectors/workspace"
	"github.com/custodia-labs/sercha-indexer/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetFactory(buildServices)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// buildServices wires the stores, the workspace handler, and the core
// services. Without a workspace URL only the settings service is available.
func buildServices(configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	svc := &cli.Services{
		Settings: settingsService,
		Metrics:  services.Collectors(),
	}
	if settings.Workspace.URL == "" {
		return svc, nil
	}

	cfg, err := workspace.ParseConfig(settings.Workspace.Values())
	if err != nil {
		return nil, err
	}
	client, err := workspace.NewRPCClient(cfg, nil)
	if err != nil {
		return nil, err
	}
	handler, err := workspace.New(client, cfg)
	if err != nil {
		return nil, err
	}
	registry, err := services.NewHandlerRegistry(handler)
	if err != nil {
		return nil, err
	}

	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		_ = registry.Close()
		return nil, err
	}
	events := store.EventStore()

	processor := services.NewEventProcessor(events, registry, settings.Processor)
	svc.Events = services.NewEventService(events, registry)
	svc.Processor = processor
	svc.Scheduler = services.NewScheduler(settings.Processor.PollInterval, processor)
	svc.Registry = registry
	svc.Close = func() error {
		return errors.Join(registry.Close(), store.Close())
	}
	return svc, nil
}
