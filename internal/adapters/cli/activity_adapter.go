package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/tasktracker/internal/core/task"
	"github.com/example/tasktracker/internal/ports/primary"
)

const activityTimeLayout = "2006-01-02 15:04:05"

// ActivityAdapter translates CLI operations to ActivityService calls.
type ActivityAdapter struct {
	service primary.ActivityService
	out     io.Writer
}

// NewActivityAdapter creates a new ActivityAdapter with the given service.
func NewActivityAdapter(service primary.ActivityService, out io.Writer) *ActivityAdapter {
	return &ActivityAdapter{
		service: service,
		out:     out,
	}
}

// Show prints matching entries oldest first and returns them.
func (a *ActivityAdapter) Show(ctx context.Context, filters primary.ActivityFilters) ([]*primary.ActivityEntry, error) {
	entries, err := a.service.ListActivity(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No activity found.")
		return entries, nil
	}

	fmt.Fprintf(a.out, "Found %d entries:\n\n", len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		a.PrintEntry(entries[i])
	}
	return entries, nil
}

// PrintEntry prints a single line: time | trace | icon action | task | change.
func (a *ActivityAdapter) PrintEntry(e *primary.ActivityEntry) {
	trace := e.TraceID
	if len(trace) > 8 {
		trace = trace[:8]
	}
	if trace == "" {
		trace = "-"
	}

	action := task.Action(e.Action)
	fmt.Fprintf(a.out, "%s | %-8s | %s %-8s | task %d",
		e.CreatedAt.Local().Format(activityTimeLayout),
		trace,
		action.Icon(),
		e.Action,
		e.TaskID,
	)

	switch action {
	case task.ActionCreate:
		fmt.Fprintf(a.out, " | %q", e.NewValue)
	case task.ActionEdit:
		fmt.Fprintf(a.out, " | %q -> %q", e.OldValue, e.NewValue)
	case task.ActionDelete:
		fmt.Fprintf(a.out, " | was %q", e.OldValue)
	}
	fmt.Fprintln(a.out)
}

// Prune deletes entries older than days.
func (a *ActivityAdapter) Prune(ctx context.Context, days int) error {
	count, err := a.service.PruneActivity(ctx, days)
	if err != nil {
		return err
	}

	if count == 0 {
		fmt.Fprintf(a.out, "No activity older than %d days found.\n", days)
	} else {
		fmt.Fprintf(a.out, "Pruned %d entries older than %d days.\n", count, days)
	}
	return nil
}
