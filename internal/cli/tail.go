package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/config"
	"github.com/eungjin-cigro/cursorflow-sub004/internal/engine"
	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
)

var tailFlags struct {
	lane          string
	entryType     string
	minImportance string
	search        string
	limit         int
	noFollow      bool
}

var tailCmd = &cobra.Command{
	Use:   "tail <run-dir>",
	Short: "Stream merged lane output for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runDir := args[0]

		settings, err := config.LoadSettings(runDir)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		eng := engine.New(runDir, settings)
		filter := engine.Filter{
			Lane:          tailFlags.lane,
			Type:          models.EntryType(tailFlags.entryType),
			MinImportance: models.ParseImportance(tailFlags.minImportance),
			Search:        tailFlags.search,
		}
		format := engine.FormatOptions{ShowLane: true, ShowTimestamp: true}

		eng.StartStreaming()
		defer eng.StopStreaming()

		// Backlog first: the most recent entries already on disk.
		for _, entry := range eng.Entries(engine.QueryOptions{
			Limit:   tailFlags.limit,
			Filter:  filter,
			FromEnd: true,
		}) {
			fmt.Println(engine.FormatEntry(entry, format))
		}
		eng.AckNewEntries()

		if tailFlags.noFollow {
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		id, updates := eng.Subscribe()
		defer eng.Unsubscribe(id)

		for {
			select {
			case <-ctx.Done():
				return nil
			case batch := <-updates:
				for _, entry := range batch {
					if !filter.Matches(entry) {
						continue
					}
					fmt.Println(engine.FormatEntry(entry, format))
				}
				eng.AckNewEntries()
			}
		}
	},
}

func init() {
	tailCmd.Flags().StringVar(&tailFlags.lane, "lane", "", "only show entries from this lane")
	tailCmd.Flags().StringVar(&tailFlags.entryType, "type", "", "only show entries of this semantic type")
	tailCmd.Flags().StringVar(&tailFlags.minImportance, "min-importance", "debug", "importance floor (debug|info|low|medium|high|critical)")
	tailCmd.Flags().StringVar(&tailFlags.search, "search", "", "case-insensitive substring filter")
	tailCmd.Flags().IntVar(&tailFlags.limit, "limit", 50, "number of backlog entries to print before following")
	tailCmd.Flags().BoolVar(&tailFlags.noFollow, "no-follow", false, "print the backlog and exit")
}
