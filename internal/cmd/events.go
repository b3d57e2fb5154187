package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fonny-io/fonny/internal/archive"
	"github.com/fonny-io/fonny/internal/config"
	"github.com/fonny-io/fonny/internal/event"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the recorded event archive",
	Long: `List events recorded by previous sessions.

Examples:
  # Show the last 50 events
  fonny events

  # Show everything the board said
  fonny events --kind system.response -n 0

  # Show commands sent during all sessions
  fonny events --kind user.command

  # Wipe the archive
  fonny events --clear`,
	RunE: runEvents,
}

var (
	eventsKind  string
	eventsTail  int
	eventsClear bool
)

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVarP(&eventsKind, "kind", "k", "", "Filter by event kind (user.command, system.response, system.error, connection.opened, connection.closed)")
	eventsCmd.Flags().IntVarP(&eventsTail, "tail", "n", 50, "Number of events to show (0 for all)")
	eventsCmd.Flags().BoolVar(&eventsClear, "clear", false, "Delete all recorded events")
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := archive.OpenSQLite(cfg.Archive.ResolveArchivePath())
	if err != nil {
		return err
	}
	defer db.Close()

	if eventsClear {
		if err := db.Clear(); err != nil {
			return err
		}
		fmt.Println("Archive cleared.")
		return nil
	}

	var stored []archive.StoredEvent
	if eventsKind != "" {
		kind := event.Kind(eventsKind)
		if !kind.Valid() {
			return fmt.Errorf("unknown event kind %q", eventsKind)
		}
		stored, err = db.Events(kind)
	} else {
		stored, err = db.AllEvents()
	}
	if err != nil {
		return err
	}

	if eventsTail > 0 && len(stored) > eventsTail {
		stored = stored[len(stored)-eventsTail:]
	}

	if len(stored) == 0 {
		fmt.Println("No matching events found.")
		fmt.Println("Archive is at:", db.Path())
		return nil
	}

	for _, e := range stored {
		fmt.Println(formatStoredEvent(e))
	}
	return nil
}

// formatStoredEvent renders one archive row for terminal output.
func formatStoredEvent(e archive.StoredEvent) string {
	var sb strings.Builder

	sb.WriteString("[")
	sb.WriteString(e.Timestamp.Format("2006-01-02 15:04:05.000"))
	sb.WriteString("] ")
	sb.WriteString(string(e.Kind))

	// Deterministic field order for grep-ability.
	keys := make([]string, 0, len(e.Payload))
	for k := range e.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprintf("%q", e.Payload[k]))
	}

	return sb.String()
}
