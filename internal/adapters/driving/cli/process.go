package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/logger"
)

var (
	processOnce        bool
	processMetricsAddr string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process queued events",
	Long: `Expands queued events and marks the resulting per-object events as
ready for indexing. Without --once, the queue is polled until interrupted.

Processing stops on fatal errors such as invalid credentials; the event
being processed stays queued.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processOnce, "once", false, "drain the queue once and exit")
	processCmd.Flags().StringVar(&processMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	if eventProcessor == nil {
		return errNoEvents
	}
	ctx := cmd.Context()

	if processMetricsAddr != "" {
		stop, err := serveMetrics(processMetricsAddr)
		if err != nil {
			return err
		}
		defer stop()
	}

	if processOnce {
		stats, err := eventProcessor.Run(ctx)
		printStats(cmd, stats)
		if err != nil {
			return fmt.Errorf("processing stopped: %w", err)
		}
		return nil
	}

	if scheduler == nil {
		return errors.New("scheduler not configured")
	}
	cmd.Println("Processing events, press Ctrl+C to stop.")
	err := scheduler.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printStats(cmd *cobra.Command, stats domain.ProcessStats) {
	cmd.Printf("Processed %d events: %d expanded into %d, %d indexable, %d failed\n",
		stats.Processed, stats.Expanded, stats.Children, stats.Indexable, stats.Failed)
}

// serveMetrics exposes the processor metrics until stop is called.
func serveMetrics(addr string) (stop func(), err error) {
	reg := prometheus.NewRegistry()
	for _, c := range metrics {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server: %v", err)
		}
	}()
	logger.Info("serving metrics on http://%s/metrics", ln.Addr())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
