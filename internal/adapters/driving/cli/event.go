package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// eventFlags are the optional event fields shared by event add and expand.
type eventFlags struct {
	storageCode string
	version     int
	public      bool
	timestamp   string
	newName     string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.storageCode, "storage", "WS", "storage code of the event")
	cmd.Flags().IntVar(&f.version, "ver", 0, "object version")
	cmd.Flags().BoolVar(&f.public, "public", false, "the container is public")
	cmd.Flags().StringVar(&f.timestamp, "time", "", "event time, RFC 3339 (default now)")
	cmd.Flags().StringVar(&f.newName, "new-name", "", "new object name for rename events")
}

// build makes an event from "<type> <container> [object]" arguments.
func (f *eventFlags) build(cmd *cobra.Command, args []string) (domain.StatusEvent, error) {
	eventType, err := domain.ParseStatusEventType(strings.ToUpper(args[0]))
	if err != nil {
		return domain.StatusEvent{}, err
	}
	container, err := strconv.Atoi(args[1])
	if err != nil {
		return domain.StatusEvent{}, fmt.Errorf("%w: container id %q is not a number", domain.ErrInvalidInput, args[1])
	}

	ts := time.Now().UTC()
	if f.timestamp != "" {
		ts, err = time.Parse(time.RFC3339, f.timestamp)
		if err != nil {
			return domain.StatusEvent{}, fmt.Errorf("%w: --time: %v", domain.ErrInvalidInput, err)
		}
	}

	opts := []domain.EventOption{domain.WithAccessGroupID(container)}
	if len(args) > 2 {
		opts = append(opts, domain.WithObjectID(args[2]))
	}
	if cmd.Flags().Changed("ver") {
		opts = append(opts, domain.WithVersion(f.version))
	}
	if cmd.Flags().Changed("public") {
		opts = append(opts, domain.WithPublic(f.public))
	}
	if f.newName != "" {
		opts = append(opts, domain.WithNewName(f.newName))
	}
	return domain.NewStatusEvent(f.storageCode, ts, eventType, opts...), nil
}

var (
	addFlags    eventFlags
	listStatus  string
	listLimit   int
	errNoEvents = errors.New("event queue is not configured")
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage the event queue",
}

var eventAddCmd = &cobra.Command{
	Use:   "add <type> <container> [object]",
	Short: "Queue an event",
	Long: `Queues an event for processing. For DELETE_ACCESS_GROUP the object
argument is the container's highest object id.`,
	Example: `  sercha-indexer event add COPY_ACCESS_GROUP 42
  sercha-indexer event add NEW_ALL_VERSIONS 42 7 --public
  sercha-indexer event add DELETE_ACCESS_GROUP 42 1500`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runEventAdd,
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued events",
	RunE:  runEventList,
}

var eventRetryCmd = &cobra.Command{
	Use:   "retry <id>...",
	Short: "Put failed events back in the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEventRetry,
}

var eventStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the number of events per status",
	RunE:  runEventStatus,
}

func init() {
	addFlags.register(eventAddCmd)
	eventListCmd.Flags().StringVar(&listStatus, "status", "", "only list events with this status (UNPROC, READY, PROC, INDX, FAIL)")
	eventListCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum events to list, 0 for all")

	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventRetryCmd)
	eventCmd.AddCommand(eventStatusCmd)
	rootCmd.AddCommand(eventCmd)
}

func runEventAdd(cmd *cobra.Command, args []string) error {
	if eventService == nil {
		return errNoEvents
	}
	ev, err := addFlags.build(cmd, args)
	if err != nil {
		return err
	}
	stored, err := eventService.Submit(cmd.Context(), ev)
	if err != nil {
		return fmt.Errorf("failed to queue event: %w", err)
	}
	cmd.Printf("Queued %s as %s\n", ev, stored.ID)
	return nil
}

func runEventList(cmd *cobra.Command, _ []string) error {
	if eventService == nil {
		return errNoEvents
	}
	var status domain.EventStatus
	if listStatus != "" {
		var err error
		if status, err = domain.ParseEventStatus(strings.ToUpper(listStatus)); err != nil {
			return err
		}
	}

	events, err := eventService.List(cmd.Context(), status, listLimit)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		cmd.Println("No events.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tEVENT\tPARENT\tERROR")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ev.ID, ev.Status, ev.Event, ev.ParentID, ev.Error)
	}
	return w.Flush()
}

func runEventRetry(cmd *cobra.Command, args []string) error {
	if eventService == nil {
		return errNoEvents
	}
	for _, id := range args {
		if err := eventService.Retry(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to retry %s: %w", id, err)
		}
		cmd.Printf("Event %s is READY\n", id)
	}
	return nil
}

func runEventStatus(cmd *cobra.Command, _ []string) error {
	if eventService == nil {
		return errNoEvents
	}
	counts, err := eventService.Counts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	for _, st := range []domain.EventStatus{
		domain.StatusUnprocessed, domain.StatusReady, domain.StatusProcessed,
		domain.StatusIndexable, domain.StatusFailed,
	} {
		cmd.Printf("%-7s %d\n", st, counts[st])
	}
	return nil
}
