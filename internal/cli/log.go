package cli

import (
	"time"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/tasktracker/internal/adapters/cli"
	"github.com/example/tasktracker/internal/ports/primary"
	"github.com/example/tasktracker/internal/wire"
)

const followInterval = time.Second

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "View task activity history",
		Long:  "View and prune the history of task changes (audit trail)",
	}

	cmd.AddCommand(logTailCmd())
	cmd.AddCommand(logShowCmd())
	cmd.AddCommand(logPruneCmd())
	return cmd
}

func logTailCmd() *cobra.Command {
	var limit int
	var follow bool

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show recent activity",
		Long:  "Show recent activity entries (default 50)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = 50
			}
			ctx := cmd.Context()
			adapter := wire.ActivityAdapterWithOutput(cmd.OutOrStdout())

			entries, err := adapter.Show(ctx, primary.ActivityFilters{Limit: limit})
			if err != nil || !follow {
				return err
			}

			var lastID int64
			if len(entries) > 0 {
				lastID = entries[0].ID
			}

			ticker := time.NewTicker(followInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}

				newEntries, err := wire.ActivityService().ListActivity(ctx, primary.ActivityFilters{Limit: limit})
				if err != nil {
					wire.Logger().WarnContext(ctx, "failed to poll activity", "error", err)
					continue
				}
				// Print only entries newer than lastID, oldest first
				for i := len(newEntries) - 1; i >= 0; i-- {
					if e := newEntries[i]; e.ID > lastID {
						adapter.PrintEntry(e)
						lastID = e.ID
					}
				}
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep polling for new entries")
	return cmd
}

func logShowCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show activity for a specific task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cliadapter.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			_, err = wire.ActivityAdapterWithOutput(cmd.OutOrStdout()).Show(cmd.Context(), primary.ActivityFilters{
				TaskID: id,
				Limit:  limit,
			})
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum entries to show (0 = all)")
	return cmd
}

func logPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old activity entries",
		Long:  "Delete activity entries older than the specified number of days (default 30)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				days = 30
			}
			return wire.ActivityAdapterWithOutput(cmd.OutOrStdout()).Prune(cmd.Context(), days)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 30, "Age threshold in days")
	return cmd
}
