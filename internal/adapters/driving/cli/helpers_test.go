package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-indexer/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-indexer/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-indexer/internal/core/services"
)

var testTime = time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag to its default so runs do not leak.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func withFactory(t *testing.T, f Factory) {
	t.Helper()
	old := factory
	factory = f
	t.Cleanup(func() { factory = old })
}

func withServices(t *testing.T, svc *Services) {
	t.Helper()
	setServices(svc)
	t.Cleanup(func() { setServices(&Services{}) })
}

// testEnv wires real services over an in-memory queue and a stub handler.
type testEnv struct {
	store    *memory.EventStore
	handler  *stubHandler
	settings *services.SettingsService
	services *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:   memory.NewEventStore(),
		handler: newStubHandler(),
	}
	registry, err := services.NewHandlerRegistry(env.handler)
	require.NoError(t, err)

	cs, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	env.settings = services.NewSettingsService(cs)

	cfg := domain.ProcessorConfig{MaxRetries: 0}
	processor := services.NewEventProcessor(env.store, registry, cfg)
	env.services = &Services{
		Settings:  env.settings,
		Events:    services.NewEventService(env.store, registry),
		Processor: processor,
		Scheduler: services.NewScheduler(time.Hour, processor),
		Registry:  registry,
		Metrics:   services.Collectors(),
	}
	withServices(t, env.services)
	return env
}

// stubHandler is a driven.EventHandler with canned answers.
type stubHandler struct {
	expansions map[domain.StatusEventType][]domain.StatusEvent
	expandErr  error
	data       []byte
	loaded     [][]domain.GUID
}

var _ driven.EventHandler = (*stubHandler)(nil)

func newStubHandler() *stubHandler {
	return &stubHandler{expansions: map[domain.StatusEventType][]domain.StatusEvent{}}
}

func (h *stubHandler) StorageCode() string { return "WS" }

func (h *stubHandler) Load(_ context.Context, guids []domain.GUID, spool string) (*domain.SourceData, error) {
	h.loaded = append(h.loaded, guids)
	if err := os.WriteFile(spool, h.data, 0600); err != nil {
		return nil, err
	}
	return domain.NewSourceDataBuilder(h.data, "genome").
		WithTypeString("KBaseGenomes.Genome-14.2").
		WithCreator(domain.Ptr("alice")).
		WithModule(domain.Ptr("annotate")).
		Build(), nil
}

func (h *stubHandler) BuildReferencePaths(refPath []domain.GUID, refs []domain.GUID) (map[string]string, error) {
	prefix := ""
	for _, g := range refPath {
		prefix += g.RefString() + ";"
	}
	out := make(map[string]string, len(refs))
	for _, r := range refs {
		out[r.String()] = prefix + r.RefString()
	}
	return out, nil
}

func (h *stubHandler) ResolveReferences(
	_ context.Context, _ []domain.GUID, refs []domain.GUID,
) ([]domain.ResolvedReference, error) {
	typ, _ := domain.ParseStorageObjectType("WS", "KBaseGenomes.Genome-14.2")
	out := make([]domain.ResolvedReference, 0, len(refs))
	for _, r := range refs {
		out = append(out, domain.ResolvedReference{
			Reference:   r,
			ResolvedRef: domain.NewGUID("WS", r.AccessGroupID, "9", 3),
			Type:        typ,
			Timestamp:   testTime,
		})
	}
	return out, nil
}

func (h *stubHandler) IsExpandable(ev domain.StoredStatusEvent) (bool, error) {
	if ev.Event.StorageCode != "WS" {
		return false, domain.ErrStorageCodeMismatch
	}
	_, ok := h.expansions[ev.Event.EventType]
	return ok, nil
}

func (h *stubHandler) Expand(_ context.Context, ev domain.StoredStatusEvent) (driven.EventIterator, error) {
	if h.expandErr != nil {
		return nil, h.expandErr
	}
	if events, ok := h.expansions[ev.Event.EventType]; ok {
		return driven.NewSliceIterator(events...), nil
	}
	return driven.NewSliceIterator(ev.Event), nil
}

func (h *stubHandler) Close() error { return nil }

func granular(obj string) domain.StatusEvent {
	return domain.NewStatusEvent("WS", testTime, domain.EventNewVersion,
		domain.WithAccessGroupID(42), domain.WithObjectID(obj), domain.WithVersion(1))
}

var errBoom = errors.New("boom")
