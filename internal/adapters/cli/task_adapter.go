// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/example/tasktracker/internal/ports/primary"
)

const createdAtLayout = "2006-01-02 15:04:05"

// TaskAdapter is a thin adapter that translates CLI operations to TaskService calls.
// It depends only on the TaskService interface, enabling easy testing with mocks.
type TaskAdapter struct {
	service primary.TaskService
	out     io.Writer
}

// NewTaskAdapter creates a new TaskAdapter with the given service.
func NewTaskAdapter(service primary.TaskService, out io.Writer) *TaskAdapter {
	return &TaskAdapter{
		service: service,
		out:     out,
	}
}

// ParseTaskID parses a numeric task ID argument.
func ParseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID %q: must be a number", arg)
	}
	return id, nil
}

// Add creates a new task. Blank text is reported, not treated as an error.
func (a *TaskAdapter) Add(ctx context.Context, text string) error {
	resp, err := a.service.CreateTask(ctx, primary.CreateTaskRequest{Text: text})
	if err != nil {
		return err
	}

	if !resp.Created {
		fmt.Fprintln(a.out, "Nothing added: task text is blank")
		return nil
	}

	fmt.Fprintf(a.out, "✓ Added task %d: %s\n", resp.Task.ID, resp.Task.Text)
	return nil
}

// List lists tasks under the given filter mode (empty uses the current mode).
func (a *TaskAdapter) List(ctx context.Context, mode string) error {
	tasks, err := a.service.ListTasks(ctx, primary.TaskFilters{Mode: mode})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks found")
		a.printStats(a.service.Stats(ctx))
		return nil
	}

	fmt.Fprintf(a.out, "\n%-15s %-6s %s\n", "ID", "DONE", "TEXT")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, t := range tasks {
		fmt.Fprintf(a.out, "%-15d %-6s %s\n", t.ID, checkbox(t.Completed), t.Text)
	}
	fmt.Fprintln(a.out)
	a.printStats(a.service.Stats(ctx))

	return nil
}

// Show displays details for a single task.
func (a *TaskAdapter) Show(ctx context.Context, taskID int64) (*primary.Task, error) {
	t, err := a.service.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	status := "active"
	if t.Completed {
		status = color.New(color.FgGreen).Sprint("completed")
	}

	fmt.Fprintf(a.out, "\nTask:    %d\n", t.ID)
	fmt.Fprintf(a.out, "Text:    %s\n", t.Text)
	fmt.Fprintf(a.out, "Status:  %s\n", status)
	fmt.Fprintf(a.out, "Created: %s\n", t.CreatedAt.Local().Format(createdAtLayout))
	fmt.Fprintln(a.out)

	return t, nil
}

// Toggle flips a task's completed flag.
func (a *TaskAdapter) Toggle(ctx context.Context, taskID int64) error {
	snap, err := a.service.ToggleTask(ctx, taskID)
	if err != nil {
		return err
	}

	t := findTask(snap, taskID)
	if t == nil {
		fmt.Fprintf(a.out, "No task %d, nothing toggled\n", taskID)
		return nil
	}
	if t.Completed {
		fmt.Fprintf(a.out, "✓ Task %d marked as completed\n", taskID)
	} else {
		fmt.Fprintf(a.out, "✓ Task %d marked as active\n", taskID)
	}
	return nil
}

// Edit replaces a task's text.
func (a *TaskAdapter) Edit(ctx context.Context, taskID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("task text must not be blank")
	}

	snap, err := a.service.EditTask(ctx, primary.EditTaskRequest{TaskID: taskID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to edit task: %w", err)
	}

	if findTask(snap, taskID) == nil {
		fmt.Fprintf(a.out, "No task %d, nothing edited\n", taskID)
		return nil
	}
	fmt.Fprintf(a.out, "✓ Task %d updated\n", taskID)
	return nil
}

// Delete removes a task.
func (a *TaskAdapter) Delete(ctx context.Context, taskID int64) error {
	before := a.service.Stats(ctx).Total

	snap, err := a.service.DeleteTask(ctx, taskID)
	if err != nil {
		return err
	}

	if snap.Stats.Total == before {
		fmt.Fprintf(a.out, "No task %d, nothing deleted\n", taskID)
		return nil
	}
	fmt.Fprintf(a.out, "✓ Deleted task %d\n", taskID)
	return nil
}

// ClearCompleted removes all completed tasks.
func (a *TaskAdapter) ClearCompleted(ctx context.Context) error {
	before := a.service.Stats(ctx).Completed

	snap, err := a.service.ClearCompleted(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Cleared %d completed task(s)\n", before-snap.Stats.Completed)
	a.printStats(snap.Stats)
	return nil
}

// Stats prints the derived counts.
func (a *TaskAdapter) Stats(ctx context.Context) error {
	a.printStats(a.service.Stats(ctx))
	return nil
}

func (a *TaskAdapter) printStats(st primary.TaskStats) {
	fmt.Fprintf(a.out, "Total: %d | %s | %s\n",
		st.Total,
		color.New(color.FgYellow).Sprintf("Active: %d", st.Active),
		color.New(color.FgGreen).Sprintf("Completed: %d", st.Completed),
	)
}

func checkbox(completed bool) string {
	if completed {
		return color.New(color.FgGreen).Sprint("[x]")
	}
	return "[ ]"
}

func findTask(snap *primary.Snapshot, taskID int64) *primary.Task {
	if snap == nil {
		return nil
	}
	for _, t := range snap.Tasks {
		if t.ID == taskID {
			return t
		}
	}
	return nil
}
