package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeMediaCleanup = "media:cleanup"
	TypeMediaSweep   = "media:sweep"
)

// MediaCleanupPayload names stored media paths that must be removed.
// Enqueued when an upload's failure compensation could not unlink the
// files it had already written.
type MediaCleanupPayload struct {
	Paths []string
}

func NewMediaCleanupTask(paths []string) (*asynq.Task, error) {
	payload, err := json.Marshal(MediaCleanupPayload{Paths: paths})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMediaCleanup, payload), nil
}

// NewMediaSweepTask removes stored files no database row references.
// Registered periodically by the scheduler.
func NewMediaSweepTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeMediaSweep, nil), nil
}
