package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/tasktracker/internal/app"
	"github.com/example/tasktracker/internal/core/task"
	"github.com/example/tasktracker/internal/ports/primary"
)

const maxTextSize = 10 << 10 // 10KB

type taskJSON struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type statsJSON struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

type snapshotJSON struct {
	Version uint64     `json:"version"`
	Tasks   []taskJSON `json:"tasks"`
	Stats   statsJSON  `json:"stats"`
}

type textRequest struct {
	Text string `json:"text"`
}

func toTaskJSON(t *primary.Task) taskJSON {
	return taskJSON{ID: t.ID, Text: t.Text, Completed: t.Completed, CreatedAt: t.CreatedAt}
}

func toTasksJSON(tasks []*primary.Task) []taskJSON {
	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskJSON(t))
	}
	return out
}

func toStatsJSON(st primary.TaskStats) statsJSON {
	return statsJSON{Total: st.Total, Active: st.Active, Completed: st.Completed}
}

func toSnapshotJSON(snap primary.Snapshot) snapshotJSON {
	return snapshotJSON{Version: snap.Version, Tasks: toTasksJSON(snap.Tasks), Stats: toStatsJSON(snap.Stats)}
}

func (s *Server) handleListTasks(c *gin.Context) {
	mode := c.Query("filter")
	if mode == "" {
		mode = s.tasks.Filter()
	}
	parsed, err := task.ParseFilterMode(mode)
	if err != nil {
		s.respondError(c, err)
		return
	}

	snap := s.tasks.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"tasks":  toTasksJSON(task.VisibleTasks(snap.Tasks, parsed)),
		"stats":  toStatsJSON(snap.Stats),
		"filter": string(parsed),
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req textRequest
	if !s.bindText(c, &req) {
		return
	}

	resp, err := s.tasks.CreateTask(c.Request.Context(), primary.CreateTaskRequest{Text: req.Text})
	if err != nil {
		s.respondError(c, err)
		return
	}

	body := gin.H{
		"created": resp.Created,
		"tasks":   toTasksJSON(resp.Snapshot.Tasks),
		"stats":   toStatsJSON(resp.Snapshot.Stats),
	}
	if !resp.Created {
		c.JSON(http.StatusOK, body)
		return
	}
	body["task"] = toTaskJSON(resp.Task)
	c.JSON(http.StatusCreated, body)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	t, err := s.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskJSON(t))
}

func (s *Server) handleToggleTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	snap, err := s.tasks.ToggleTask(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotJSON(*snap))
}

func (s *Server) handleEditTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req textRequest
	if !s.bindText(c, &req) {
		return
	}

	snap, err := s.tasks.EditTask(c.Request.Context(), primary.EditTaskRequest{TaskID: id, Text: req.Text})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotJSON(*snap))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	snap, err := s.tasks.DeleteTask(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotJSON(*snap))
}

func (s *Server) handleClearCompleted(c *gin.Context) {
	snap, err := s.tasks.ClearCompleted(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotJSON(*snap))
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, toStatsJSON(s.tasks.Stats(c.Request.Context())))
}

// handleEvents streams a snapshot event now and after every mutation until
// the client goes away. A client that falls behind gets the newest snapshot.
func (s *Server) handleEvents(c *gin.Context) {
	updates := newLatestSnapshot()
	cancel := s.tasks.Subscribe(updates.put)
	defer cancel()

	ctx := c.Request.Context()
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	current := s.tasks.Snapshot(ctx)
	c.SSEvent("snapshot", toSnapshotJSON(current))
	c.Writer.Flush()
	last := current.Version

	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-updates:
			if snap.Version <= last {
				continue
			}
			last = snap.Version
			c.SSEvent("snapshot", toSnapshotJSON(snap))
			c.Writer.Flush()
		}
	}
}

// latestSnapshot is a one-slot mailbox: an unread snapshot is replaced by a newer one.
type latestSnapshot chan primary.Snapshot

func newLatestSnapshot() latestSnapshot {
	return make(latestSnapshot, 1)
}

// put never blocks. Deliveries are serialized by the task service, so after
// draining the slot the send always lands.
func (l latestSnapshot) put(snap primary.Snapshot) {
	select {
	case <-l:
	default:
	}
	select {
	case l <- snap:
	default:
	}
}

func (s *Server) handleGetPage(c *gin.Context) {
	page, err := s.pages.GetPage(c.Request.Context(), c.Param("route"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	sections := make([]gin.H, 0, len(page.Sections))
	for _, sec := range page.Sections {
		sections = append(sections, gin.H{"heading": sec.Heading, "lead": sec.Lead, "body": sec.Body})
	}
	c.JSON(http.StatusOK, gin.H{
		"route":     page.Route,
		"title":     page.Title,
		"subtitle":  page.Subtitle,
		"sections":  sections,
		"tags":      page.Tags,
		"showTasks": page.ShowTasks,
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task id must be a number"})
		return 0, false
	}
	return id, true
}

func (s *Server) bindText(c *gin.Context, req *textRequest) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxTextSize)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, task.ErrInvalidFilterMode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, app.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
