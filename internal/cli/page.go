package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/tasktracker/internal/core/route"
	"github.com/example/tasktracker/internal/wire"
)

// PageCmd returns the page command
func PageCmd() *cobra.Command {
	var showNav bool

	cmd := &cobra.Command{
		Use:   "page [route]",
		Short: "Show an informational page",
		Long: `Show one of the built-in pages. The route may be a bare name or a
URL fragment. An empty route shows the home page; unknown routes show the
"My Tasks" heading without the list.

Examples:
  tasktracker page
  tasktracker page about
  tasktracker page "#/tasks"
  tasktracker page --nav`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: route.Navigation(),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragment := ""
			if len(args) == 1 {
				fragment = toFragment(args[0])
			}

			adapter := wire.PageAdapterWithOutput(cmd.OutOrStdout())
			if showNav {
				wire.Navigator().Navigate(fragment)
				adapter.Navigation(route.Navigation())
				return nil
			}
			return adapter.Show(cmd.Context(), fragment)
		},
	}

	cmd.Flags().BoolVar(&showNav, "nav", false, "List navigation links instead of rendering the page")
	return cmd
}

// toFragment accepts "about", "/about", or "#/about".
func toFragment(arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.HasPrefix(arg, "#") {
		return arg
	}
	return route.Fragment(strings.TrimPrefix(arg, "/"))
}
