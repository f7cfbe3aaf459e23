package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/tasktracker/internal/core/task"
	"github.com/example/tasktracker/internal/ports/primary"
	"github.com/example/tasktracker/internal/ports/secondary"
)

// DefaultStorageKey is the key the task collection is persisted under.
const DefaultStorageKey = "tasks"

// ErrTaskNotFound is returned by GetTask for an unknown ID.
var ErrTaskNotFound = errors.New("task not found")

// TaskServiceImpl implements the TaskService interface.
// It owns the ordered task collection and the current filter mode, and writes
// the full collection back to the store after every mutation.
type TaskServiceImpl struct {
	store    secondary.KeyValueStore
	activity secondary.ActivityLog
	key      string
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	tasks   []*primary.Task
	mode    task.FilterMode
	version uint64

	subMu       sync.Mutex
	subscribers map[int]func(primary.Snapshot)
	nextSubID   int

	// notifyMu serializes delivery; delivered is the newest version handed out.
	notifyMu  sync.Mutex
	delivered uint64
}

// TaskServiceOption customizes a TaskServiceImpl.
type TaskServiceOption func(*TaskServiceImpl)

// WithClock overrides the time source used for IDs and creation timestamps.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskServiceImpl) {
		s.now = now
	}
}

// NewTaskService creates a new TaskService with injected dependencies.
// An empty key falls back to DefaultStorageKey.
func NewTaskService(store secondary.KeyValueStore, key string, logger *slog.Logger, opts ...TaskServiceOption) *TaskServiceImpl {
	if key == "" {
		key = DefaultStorageKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &TaskServiceImpl{
		store:       store,
		key:         key,
		logger:      logger,
		now:         time.Now,
		mode:        task.FilterAll,
		subscribers: make(map[int]func(primary.Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted collection. A missing or unreadable value yields an
// empty collection; only a failing store is reported.
func (s *TaskServiceImpl) Load(ctx context.Context) (*primary.Snapshot, error) {
	raw, err := s.store.Get(ctx, s.key)

	var loaded []*primary.Task
	switch {
	case errors.Is(err, secondary.ErrKeyNotFound):
		s.logger.DebugContext(ctx, "no saved tasks, starting empty", "key", s.key)
	case err != nil:
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	default:
		var unreadable int
		loaded, unreadable, err = decodeTasks(raw)
		if err != nil {
			s.logger.WarnContext(ctx, "discarding unreadable saved tasks", "key", s.key, "error", err)
			loaded = nil
		} else if unreadable > 0 {
			s.logger.WarnContext(ctx, "saved tasks with unreadable createdAt", "key", s.key, "count", unreadable)
		}
	}

	s.mu.Lock()
	s.tasks = loaded
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "tasks loaded", "count", snap.Stats.Total)
	s.notify(snap)
	return &snap, nil
}

// CreateTask appends a new task with a fresh ID.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.CreateTaskResponse, error) {
	s.mu.Lock()

	// Guard: blank text is silently ignored (no record, no write)
	if result := task.CanCreateTask(task.CreateTaskContext{Text: req.Text}); !result.Allowed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return &primary.CreateTaskResponse{Created: false, Snapshot: snap}, nil
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	created := &primary.Task{
		ID:        task.NextID(now.UnixMilli(), s.maxIDLocked()),
		Text:      task.NormalizeText(req.Text),
		Completed: false,
		CreatedAt: now,
	}

	before := s.tasks
	next := make([]*primary.Task, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	next = append(next, created)

	snap, err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notify(snap)
	s.logger.InfoContext(ctx, "task created", "task_id", created.ID)
	s.recordActivity(ctx, before, snap.Tasks)
	return &primary.CreateTaskResponse{
		Created:  true,
		Task:     cloneTask(created),
		Snapshot: snap,
	}, nil
}

// GetTask retrieves a task by ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID int64) (*primary.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == taskID {
			return cloneTask(t), nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
}

// ListTasks lists tasks visible under the given filter mode, or the current one.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := s.mode
	if filters.Mode != "" {
		parsed, err := task.ParseFilterMode(filters.Mode)
		if err != nil {
			return nil, err
		}
		mode = parsed
	}
	return cloneTasks(task.VisibleTasks(s.tasks, mode)), nil
}

// ToggleTask flips the completed flag on the matching task. An unknown ID
// leaves the collection unchanged but is still written back.
func (s *TaskServiceImpl) ToggleTask(ctx context.Context, taskID int64) (*primary.Snapshot, error) {
	return s.mutate(ctx, "toggle", taskID, func(tasks []*primary.Task) []*primary.Task {
		next := make([]*primary.Task, len(tasks))
		for i, t := range tasks {
			if t.ID == taskID {
				c := *t
				c.Completed = !c.Completed
				next[i] = &c
				continue
			}
			next[i] = t
		}
		return next
	})
}

// EditTask replaces the text of the matching task. Blank replacement text is
// rejected like blank create text: nothing changes and nothing is written.
func (s *TaskServiceImpl) EditTask(ctx context.Context, req primary.EditTaskRequest) (*primary.Snapshot, error) {
	if result := task.CanEditTask(task.EditTaskContext{TaskID: req.TaskID, Text: req.Text}); !result.Allowed {
		s.logger.DebugContext(ctx, "ignoring blank edit", "task_id", req.TaskID)
		s.mu.Lock()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return &snap, nil
	}

	text := task.NormalizeText(req.Text)
	return s.mutate(ctx, "edit", req.TaskID, func(tasks []*primary.Task) []*primary.Task {
		next := make([]*primary.Task, len(tasks))
		for i, t := range tasks {
			if t.ID == req.TaskID {
				c := *t
				c.Text = text
				next[i] = &c
				continue
			}
			next[i] = t
		}
		return next
	})
}

// DeleteTask removes the matching task. An unknown ID leaves the collection
// unchanged but is still written back.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID int64) (*primary.Snapshot, error) {
	return s.mutate(ctx, "delete", taskID, func(tasks []*primary.Task) []*primary.Task {
		next := make([]*primary.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != taskID {
				next = append(next, t)
			}
		}
		return next
	})
}

// ClearCompleted removes every completed task, writing back even if none were removed.
func (s *TaskServiceImpl) ClearCompleted(ctx context.Context) (*primary.Snapshot, error) {
	return s.mutate(ctx, "clear_completed", 0, func(tasks []*primary.Task) []*primary.Task {
		return task.VisibleTasks(tasks, task.FilterActive)
	})
}

// Stats returns counts derived from the current collection.
func (s *TaskServiceImpl) Stats(ctx context.Context) primary.TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toPortStats(task.ComputeStats(s.tasks))
}

// Snapshot returns the collection and its counts under one lock.
func (s *TaskServiceImpl) Snapshot(ctx context.Context) primary.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetFilter changes the current filter mode. Unrecognized modes are rejected
// and the current mode is kept.
func (s *TaskServiceImpl) SetFilter(mode string) error {
	parsed, err := task.ParseFilterMode(mode)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.mode = parsed
	s.mu.Unlock()
	return nil
}

// Filter returns the current filter mode.
func (s *TaskServiceImpl) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.mode)
}

// VisibleTasks returns the tasks visible under the current filter mode.
func (s *TaskServiceImpl) VisibleTasks(ctx context.Context) []*primary.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(task.VisibleTasks(s.tasks, s.mode))
}

// Subscribe registers fn to receive the snapshot after every mutation.
// Delivery follows commit order and never goes back to an older version.
// fn runs while delivery is held, so it must not mutate the service.
func (s *TaskServiceImpl) Subscribe(fn func(primary.Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// mutate applies fn to the collection, persists the result, and notifies subscribers.
func (s *TaskServiceImpl) mutate(ctx context.Context, op string, taskID int64, fn func([]*primary.Task) []*primary.Task) (*primary.Snapshot, error) {
	s.mu.Lock()
	before := s.tasks
	snap, err := s.commitLocked(ctx, fn(s.tasks))
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to %s task: %w", op, err)
	}

	s.notify(snap)
	s.logger.InfoContext(ctx, "tasks updated", "op", op, "task_id", taskID, "total", snap.Stats.Total)
	s.recordActivity(ctx, before, snap.Tasks)
	return &snap, nil
}

// commitLocked writes next to the store and swaps it in only if the write succeeded.
func (s *TaskServiceImpl) commitLocked(ctx context.Context, next []*primary.Task) (primary.Snapshot, error) {
	payload, err := encodeTasks(next)
	if err != nil {
		return primary.Snapshot{}, err
	}
	if err := s.store.Set(ctx, s.key, payload); err != nil {
		return primary.Snapshot{}, fmt.Errorf("failed to save tasks: %w", err)
	}
	s.tasks = next
	s.version++
	return s.snapshotLocked(), nil
}

func (s *TaskServiceImpl) snapshotLocked() primary.Snapshot {
	return primary.Snapshot{
		Version: s.version,
		Tasks:   cloneTasks(s.tasks),
		Stats:   toPortStats(task.ComputeStats(s.tasks)),
	}
}

func (s *TaskServiceImpl) maxIDLocked() int64 {
	var maxID int64
	for _, t := range s.tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}

// notify hands snap to every subscriber unless a newer snapshot already went out.
// Mutations notify after releasing s.mu, so two of them can reach here out of
// commit order.
func (s *TaskServiceImpl) notify(snap primary.Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if snap.Version <= s.delivered {
		return
	}
	s.delivered = snap.Version

	s.subMu.Lock()
	fns := make([]func(primary.Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func toPortStats(st task.Stats) primary.TaskStats {
	return primary.TaskStats{
		Total:     st.Total,
		Active:    st.Active,
		Completed: st.Completed,
	}
}

func cloneTask(t *primary.Task) *primary.Task {
	c := *t
	return &c
}

func cloneTasks(tasks []*primary.Task) []*primary.Task {
	out := make([]*primary.Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// Ensure TaskServiceImpl implements the interface
var _ primary.TaskService = (*TaskServiceImpl)(nil)
