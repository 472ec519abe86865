// Package cli provides the sercha-indexer command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-indexer/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Services are the core services the commands drive.
type Services struct {
	Settings  driving.SettingsService
	Events    driving.EventService
	Processor driving.EventProcessor
	Scheduler driving.Scheduler
	Registry  driving.HandlerRegistry

	// Metrics are served by process --metrics-addr.
	Metrics []prometheus.Collector

	// Close releases stores and handlers.
	Close func() error
}

// Factory builds the services from the configuration directory.
type Factory func(configDir string) (*Services, error)

var (
	configDir string
	verbose   bool

	factory Factory

	settingsService driving.SettingsService
	eventService    driving.EventService
	eventProcessor  driving.EventProcessor
	scheduler       driving.Scheduler
	handlerRegistry driving.HandlerRegistry
	metrics         []prometheus.Collector
	closeServices   func() error
)

var rootCmd = &cobra.Command{
	Use:   "sercha-indexer",
	Short: "Expand workspace events for indexing",
	Long: `sercha-indexer consumes change events from a workspace service,
expands bulk events (container copies, publication changes, deletions) into
per-object events, and queues them for the indexer.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.sercha-indexer)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetFactory sets how services are built once flags are parsed.
func SetFactory(f Factory) {
	factory = f
}

// Execute runs the root command. Cancelling ctx stops long-running
// commands.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := teardown(); err == nil {
		err = cerr
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())
	if factory == nil || cmd == versionCmd {
		return nil
	}
	svc, err := factory(configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	setServices(svc)
	return nil
}

func setServices(svc *Services) {
	settingsService = svc.Settings
	eventService = svc.Events
	eventProcessor = svc.Processor
	scheduler = svc.Scheduler
	handlerRegistry = svc.Registry
	metrics = svc.Metrics
	closeServices = svc.Close
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

func requireRegistry() error {
	if handlerRegistry == nil {
		return errors.New("workspace is not configured: run 'sercha-indexer settings url <url>' first")
	}
	return nil
}
