package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/tasktracker/internal/logging"
	"github.com/example/tasktracker/internal/version"
	"github.com/example/tasktracker/internal/wire"
)

// skipInitAnnotation marks commands that must run without opening storage.
const skipInitAnnotation = "tasktracker/skip-init"

type commandContext struct {
	correlationID string
	startedAt     time.Time
}

type commandContextKey struct{}

// NewRootCmd builds the tasktracker command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tasktracker",
		Short:   "tasktracker - a small personal task list",
		Version: version.String(),
		Long: `tasktracker keeps an ordered list of tasks with completion state,
saved after every change. It ships a CLI, a JSON HTTP API, and a handful
of informational pages.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipInit(cmd) {
				return nil
			}
			if err := wire.Init(); err != nil {
				return err
			}

			info := commandContext{
				correlationID: logging.NewCorrelationID(),
				startedAt:     time.Now(),
			}
			ctx := logging.WithCorrelationID(cmd.Context(), info.correlationID)
			ctx = contextWithCommand(ctx, info)
			cmd.SetContext(ctx)

			wire.Logger().DebugContext(ctx, "command start", "command", cmd.CommandPath())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if skipInit(cmd) {
				return nil
			}
			ctx := cmd.Context()
			if info, ok := commandFromContext(ctx); ok {
				wire.Logger().DebugContext(ctx, "command end",
					"command", cmd.CommandPath(),
					"duration_ms", time.Since(info.startedAt).Milliseconds(),
				)
			}
			if err := wire.Close(); err != nil {
				return fmt.Errorf("failed to close storage: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(DoctorCmd())
	rootCmd.AddCommand(TaskCmd())
	rootCmd.AddCommand(LogCmd())
	rootCmd.AddCommand(PageCmd())
	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(ConfigCmd())

	return rootCmd
}

func skipInit(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipInitAnnotation] == "true" {
			return true
		}
	}
	return false
}

func skipInitAnnotations() map[string]string {
	return map[string]string{skipInitAnnotation: "true"}
}
