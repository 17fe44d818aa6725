package cleanup

import (
	"log/slog"
	"sync"
)

// Job is a named shutdown action registered by long-lived resources
// (connection pools and the like) and drained once on exit.
type Job struct {
	Name string
	F    func() error
}

var (
	mu   sync.Mutex
	jobs []*Job
)

func Register(j *Job) {
	mu.Lock()
	defer mu.Unlock()
	jobs = append(jobs, j)
}

func CleanUp() {
	mu.Lock()
	defer mu.Unlock()
	for _, j := range jobs {
		slog.Info("cleanup job started", slog.String("job", j.Name))
		if err := j.F(); err != nil {
			slog.Error("cleanup job failed", slog.String("job", j.Name), slog.String("error", err.Error()))
			continue
		}
		slog.Info("cleanup job finished", slog.String("job", j.Name))
	}
	jobs = nil
}
