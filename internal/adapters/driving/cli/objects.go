package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
	"github.com/custodia-labs/sercha-indexer/internal/core/ports/driven"
)

var (
	expandFlags eventFlags
	expandLimit int

	loadOut string

	resolvePath string
)

var expandCmd = &cobra.Command{
	Use:   "expand <type> <container> [object]",
	Short: "Print the events an event expands into",
	Long: `Expands an event against the workspace and prints the resulting
events without queueing anything.`,
	Example: `  sercha-indexer expand COPY_ACCESS_GROUP 42 --limit 20
  sercha-indexer expand NEW_ALL_VERSIONS 42 7`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runExpand,
}

var loadCmd = &cobra.Command{
	Use:   "load <guid>...",
	Short: "Load an object's data and provenance",
	Long: `Loads the object at the end of a reference chain. Each argument is
one hop, e.g. WS:1/2/3 WS:4/5/1 loads 4/5/1 as reached from 1/2/3.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <guid>...",
	Short: "Resolve references to their canonical versions",
	Example: `  sercha-indexer resolve WS:4/5 WS:6/foo
  sercha-indexer resolve --path "WS:1/2/3" WS:4/5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	expandFlags.register(expandCmd)
	expandCmd.Flags().IntVar(&expandLimit, "limit", 0, "stop after this many events, 0 for all")
	loadCmd.Flags().StringVarP(&loadOut, "out", "o", "", "write the object data to this file")
	resolveCmd.Flags().StringVar(&resolvePath, "path", "", "reference chain the references were found through, space separated")

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(resolveCmd)
}

func handlerFor(storageCode string) (driven.EventHandler, error) {
	if err := requireRegistry(); err != nil {
		return nil, err
	}
	return handlerRegistry.Get(storageCode)
}

func parseGUIDs(args []string) ([]domain.GUID, error) {
	guids := make([]domain.GUID, 0, len(args))
	for _, a := range args {
		g, err := domain.ParseGUID(a)
		if err != nil {
			return nil, err
		}
		guids = append(guids, g)
	}
	return guids, nil
}

func runExpand(cmd *cobra.Command, args []string) error {
	ev, err := expandFlags.build(cmd, args)
	if err != nil {
		return err
	}
	h, err := handlerFor(ev.StorageCode)
	if err != nil {
		return err
	}

	stored := domain.StoredStatusEvent{Event: ev, Status: domain.StatusReady}
	expandable, err := h.IsExpandable(stored)
	if err != nil {
		return err
	}
	if !expandable {
		cmd.Printf("%s is not expandable\n", ev.EventType)
	}

	it, err := h.Expand(cmd.Context(), stored)
	if err != nil {
		return fmt.Errorf("expansion failed: %w", err)
	}
	n := 0
	for it.Next(cmd.Context()) {
		cmd.Println(it.Event())
		n++
		if expandLimit > 0 && n >= expandLimit {
			cmd.Printf("stopped after %d events\n", n)
			return nil
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("expansion failed after %d events: %w", n, err)
	}
	cmd.Printf("%d events\n", n)
	return nil
}

// loadResult is the printed form of a load.
type loadResult struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Creator    *string `json:"creator"`
	Copier     *string `json:"copier"`
	Module     *string `json:"module"`
	Method     *string `json:"method"`
	Version    *string `json:"version"`
	CommitHash *string `json:"commit_hash"`
	DataBytes  int     `json:"data_bytes"`
	DataFile   string  `json:"data_file,omitempty"`
}

func runLoad(cmd *cobra.Command, args []string) error {
	guids, err := parseGUIDs(args)
	if err != nil {
		return err
	}
	h, err := handlerFor(guids[0].StorageCode)
	if err != nil {
		return err
	}

	spool, err := os.CreateTemp("", "sercha-load-*.json")
	if err != nil {
		return fmt.Errorf("creating spool file: %w", err)
	}
	spool.Close()
	defer os.Remove(spool.Name())

	sd, err := h.Load(cmd.Context(), guids, spool.Name())
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	res := loadResult{
		Name:       sd.Name,
		Type:       sd.TypeString,
		Creator:    sd.Creator,
		Copier:     sd.Copier,
		Module:     sd.Module,
		Method:     sd.Method,
		Version:    sd.Version,
		CommitHash: sd.CommitHash,
		DataBytes:  len(sd.Data),
	}
	if loadOut != "" {
		if err := os.WriteFile(loadOut, sd.Data, 0600); err != nil {
			return fmt.Errorf("writing data: %w", err)
		}
		res.DataFile = loadOut
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func runResolve(cmd *cobra.Command, args []string) error {
	refs, err := parseGUIDs(args)
	if err != nil {
		return err
	}
	refPath, err := parseGUIDs(strings.Fields(resolvePath))
	if err != nil {
		return err
	}
	h, err := handlerFor(refs[0].StorageCode)
	if err != nil {
		return err
	}

	paths, err := h.BuildReferencePaths(refPath, refs)
	if err != nil {
		return err
	}
	resolved, err := h.ResolveReferences(cmd.Context(), refPath, refs)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REFERENCE\tPATH\tRESOLVED\tTYPE\tSAVED")
	for _, r := range resolved {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Reference, paths[r.Reference.String()],
			r.ResolvedRef, r.Type, r.Timestamp.UTC().Format(time.RFC3339))
	}
	return w.Flush()
}
