package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tasktracker/internal/config"
	"github.com/example/tasktracker/internal/db"
	"github.com/example/tasktracker/internal/logging"
	"github.com/example/tasktracker/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Initialize task storage",
		Long:        `Create the storage backend named in the config (for sqlite, the database file and its schema).`,
		Annotations: skipInitAnnotations(),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

			where := cfg.Storage.Backend
			if cfg.Storage.Backend == config.BackendSQLite {
				path := cfg.Storage.SQLitePath
				if path == "" {
					if path, err = db.DefaultPath(); err != nil {
						return fmt.Errorf("failed to get database path: %w", err)
					}
				}
				where = path
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initializing %s storage at %s\n", cfg.Storage.Backend, where)

			storage, err := wire.OpenStorage(cmd.Context(), cfg.Storage, logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			fmt.Fprintln(out, "✓ Storage initialized successfully")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, `  tasktracker task add "My first task"`)
			fmt.Fprintln(out, "  tasktracker task list")

			return nil
		},
	}
}
