package web

import (
	"strconv"

	"github.com/example/tasktracker/internal/ports/primary"
)

func appCreate(text string) primary.CreateTaskRequest {
	return primary.CreateTaskRequest{Text: text}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
