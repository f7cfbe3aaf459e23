package app

import (
	"context"
	"strconv"

	"github.com/example/tasktracker/internal/core/task"
	"github.com/example/tasktracker/internal/logging"
	"github.com/example/tasktracker/internal/ports/primary"
	"github.com/example/tasktracker/internal/ports/secondary"
)

// WithActivityLog records every task change to log.
func WithActivityLog(log secondary.ActivityLog) TaskServiceOption {
	return func(s *TaskServiceImpl) {
		s.activity = log
	}
}

// diffTasks describes how after differs from before as per-task changes:
// creations and edits/toggles in after's order, then deletions in before's order.
func diffTasks(before, after []*primary.Task) []*secondary.ActivityRecord {
	prev := make(map[int64]*primary.Task, len(before))
	for _, t := range before {
		prev[t.ID] = t
	}

	var out []*secondary.ActivityRecord
	seen := make(map[int64]bool, len(after))
	for _, t := range after {
		seen[t.ID] = true
		old, ok := prev[t.ID]
		if !ok {
			out = append(out, &secondary.ActivityRecord{TaskID: t.ID, Action: string(task.ActionCreate), NewValue: t.Text})
			continue
		}
		if old.Text != t.Text {
			out = append(out, &secondary.ActivityRecord{TaskID: t.ID, Action: string(task.ActionEdit), OldValue: old.Text, NewValue: t.Text})
		}
		if old.Completed != t.Completed {
			out = append(out, &secondary.ActivityRecord{
				TaskID:   t.ID,
				Action:   string(task.ToggleAction(t.Completed)),
				OldValue: strconv.FormatBool(old.Completed),
				NewValue: strconv.FormatBool(t.Completed),
			})
		}
	}
	for _, t := range before {
		if !seen[t.ID] {
			out = append(out, &secondary.ActivityRecord{TaskID: t.ID, Action: string(task.ActionDelete), OldValue: t.Text})
		}
	}
	return out
}

// recordActivity appends the changes between before and after. The task
// collection is already saved, so a failing activity log only warns.
func (s *TaskServiceImpl) recordActivity(ctx context.Context, before, after []*primary.Task) {
	if s.activity == nil {
		return
	}
	records := diffTasks(before, after)
	if len(records) == 0 {
		return
	}

	at := s.now().UTC()
	trace := logging.CorrelationIDFromContext(ctx)
	if trace == "" {
		trace = logging.RequestIDFromContext(ctx)
	}
	for _, r := range records {
		r.TraceID = trace
		r.CreatedAt = at
	}

	if err := s.activity.Append(ctx, records); err != nil {
		s.logger.WarnContext(ctx, "failed to record task activity", "changes", len(records), "error", err)
	}
}
