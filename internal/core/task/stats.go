package task

// Stats holds counts derived from a task collection.
type Stats struct {
	Total     int
	Active    int
	Completed int
}

// ComputeStats scans tasks and derives counts. Active is always Total - Completed.
func ComputeStats[T Completable](tasks []T) Stats {
	completed := 0
	for _, t := range tasks {
		if t.IsCompleted() {
			completed++
		}
	}
	return Stats{
		Total:     len(tasks),
		Active:    len(tasks) - completed,
		Completed: completed,
	}
}
