package cli

import (
	"strings"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/tasktracker/internal/adapters/cli"
	"github.com/example/tasktracker/internal/core/task"
	"github.com/example/tasktracker/internal/wire"
)

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  "Add, list, toggle, edit, and remove tasks",
	}

	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskShowCmd())
	cmd.AddCommand(taskToggleCmd())
	cmd.AddCommand(taskEditCmd())
	cmd.AddCommand(taskDeleteCmd())
	cmd.AddCommand(taskClearCmd())
	cmd.AddCommand(taskStatsCmd())

	return cmd
}

func taskAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text]",
		Short: "Add a new task",
		Long: `Add a new task to the end of the list.

Examples:
  tasktracker task add "Buy milk"
  tasktracker task add Email Bob about the report`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Add(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func taskListCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).List(cmd.Context(), filter)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Filter by state ("+strings.Join(filterModeNames(), ", ")+")")
	_ = cmd.RegisterFlagCompletionFunc("filter", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return filterModeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cliadapter.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			_, err = wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Show(cmd.Context(), id)
			return err
		},
	}
}

func taskToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "toggle [task-id]",
		Aliases: []string{"done"},
		Short:   "Flip a task between active and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cliadapter.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Toggle(cmd.Context(), id)
		},
	}
}

func taskEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [task-id] [text]",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cliadapter.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Edit(cmd.Context(), id, strings.Join(args[1:], " "))
		},
	}
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [task-id]",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cliadapter.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Delete(cmd.Context(), id)
		},
	}
}

func taskClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).ClearCompleted(cmd.Context())
		},
	}
}

func taskStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total, active, and completed counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Stats(cmd.Context())
		},
	}
}

func filterModeNames() []string {
	modes := task.FilterModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}
