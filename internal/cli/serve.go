package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/tasktracker/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Long: `Serve the task API until interrupted.

Endpoints:
  GET    /api/tasks?filter=all|active|completed
  POST   /api/tasks                 {"text": "..."}
  GET    /api/tasks/:id
  PUT    /api/tasks/:id             {"text": "..."}
  DELETE /api/tasks/:id
  POST   /api/tasks/:id/toggle
  POST   /api/tasks/clear-completed
  GET    /api/stats
  GET    /api/events                (server-sent snapshots)
  GET    /api/pages/:route
  GET    /api/activity?task=&limit=`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = wire.Config().HTTP.Addr
			}
			return wire.WebServer().Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config http.addr)")
	return cmd
}
