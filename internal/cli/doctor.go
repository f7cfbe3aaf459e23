package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/tasktracker/internal/app"
	"github.com/example/tasktracker/internal/config"
	"github.com/example/tasktracker/internal/logging"
	"github.com/example/tasktracker/internal/ports/secondary"
	"github.com/example/tasktracker/internal/wire"
)

const doctorTimeout = 10 * time.Second

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and storage",
		Long: `Health check for tasktracker.

Validates:
- Configuration loads and is consistent
- Storage backend is reachable
- Saved tasks are readable
- Activity log is readable

Examples:
  tasktracker doctor              # Run full health check
  tasktracker doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		Annotations: skipInitAnnotations(),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
			defer cancel()

			results := runChecks(ctx)

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printResults(cmd.OutOrStdout(), results)
			}

			if hasErrors {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Exit code only")
	return cmd
}

func runChecks(ctx context.Context) []CheckResult {
	cfg, cfgResult := checkConfig()
	results := []CheckResult{cfgResult}
	if cfg == nil {
		return results
	}

	logger := logging.New(logging.Options{Level: "error", Format: cfg.Log.Format})
	storage, err := wire.OpenStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return append(results, CheckResult{Name: "Storage", Status: "✗", Details: err.Error()})
	}
	defer storage.Close()

	results = append(results, CheckResult{Name: "Storage", Status: "✓"})
	results = append(results, checkSavedTasks(ctx, storage.KV, cfg.Storage.Key))
	return append(results, checkActivityLog(ctx, storage.Activity))
}

func checkConfig() (*config.Config, CheckResult) {
	cfg, err := config.Load()
	if err != nil {
		return nil, CheckResult{Name: "Config", Status: "✗", Details: err.Error()}
	}
	if cfg.Storage.Backend == config.BackendMemory {
		return cfg, CheckResult{
			Name:    "Config",
			Status:  "⚠",
			Details: "storage backend is memory: tasks are lost when the process exits",
		}
	}
	return cfg, CheckResult{Name: "Config", Status: "✓"}
}

func checkSavedTasks(ctx context.Context, store secondary.KeyValueStore, key string) CheckResult {
	n, err := app.InspectStoredTasks(ctx, store, key)
	if err != nil {
		return CheckResult{
			Name:    "Saved tasks",
			Status:  "⚠",
			Details: fmt.Sprintf("%v (the list will start empty and be overwritten on the next change)", err),
		}
	}
	return CheckResult{Name: "Saved tasks", Status: "✓", Details: fmt.Sprintf("%d task(s)", n)}
}

func checkActivityLog(ctx context.Context, log secondary.ActivityLog) CheckResult {
	if _, err := log.List(ctx, secondary.ActivityFilters{Limit: 1}); err != nil {
		return CheckResult{Name: "Activity log", Status: "⚠", Details: err.Error()}
	}
	return CheckResult{Name: "Activity log", Status: "✓"}
}

func printResults(out io.Writer, results []CheckResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Check              Status")
	fmt.Fprintln(out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(out, "%-18s %s\n", r.Name, colorStatus(r.Status))
	}
	fmt.Fprintln(out)

	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			fmt.Fprintf(out, "%s: %s\n", r.Name, r.Details)
		}
	}
}

func colorStatus(status string) string {
	switch status {
	case "✓":
		return color.New(color.FgGreen).Sprint(status)
	case "⚠":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgRed).Sprint(status)
	}
}
