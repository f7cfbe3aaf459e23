package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/tasktracker/internal/ports/primary"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

type activityJSON struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"taskId"`
	Action    string    `json:"action"`
	OldValue  string    `json:"oldValue,omitempty"`
	NewValue  string    `json:"newValue,omitempty"`
	TraceID   string    `json:"traceId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleListActivity(c *gin.Context) {
	filters := primary.ActivityFilters{Limit: defaultActivityLimit}

	if raw := c.Query("task"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "task must be a number"})
			return
		}
		filters.TaskID = id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
			return
		}
		filters.Limit = min(limit, maxActivityLimit)
	}

	entries, err := s.activity.ListActivity(c.Request.Context(), filters)
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]activityJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, activityJSON{
			ID:        e.ID,
			TaskID:    e.TaskID,
			Action:    e.Action,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			TraceID:   e.TraceID,
			CreatedAt: e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}
