package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"podhost/internal/db"
	"podhost/internal/media"
	"podhost/pkg/tasks"
)

// sweepMinAge protects uploads that are mid-flight: a file younger than
// this is never swept even if no row references it yet.
const sweepMinAge = time.Hour

type TaskHandler struct {
	store *media.Store
}

func NewTaskHandler(store *media.Store) *TaskHandler {
	return &TaskHandler{store: store}
}

// HandleMediaCleanupTask removes the stored paths named in the payload.
// Paths that are already gone count as removed.
func (h *TaskHandler) HandleMediaCleanupTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.MediaCleanupPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	var firstErr error
	for _, stored := range p.Paths {
		if err := h.store.Remove(stored); err != nil {
			log.Printf("Cleanup: failed to remove %s: %v", stored, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Printf("Cleanup: removed %s", stored)
	}
	return firstErr
}

// HandleMediaSweepTask walks the media root and removes files no
// podcast or episode row references. A failed upload must not leave an
// orphaned, publicly resolvable file behind.
func (h *TaskHandler) HandleMediaSweepTask(ctx context.Context, t *asynq.Task) error {
	paths, err := db.AllMediaPaths()
	if err != nil {
		return fmt.Errorf("failed to load referenced media paths: %w", err)
	}
	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[p] = struct{}{}
	}

	root := h.store.Root()
	cutoff := time.Now().Add(-sweepMinAge)
	removed := 0

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		stored := filepath.ToSlash(rel)
		if _, ok := referenced[stored]; ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}

		if err := h.store.Remove(stored); err != nil {
			log.Printf("Sweep: failed to remove %s: %v", stored, err)
			return nil
		}
		removed++
		log.Printf("Sweep: removed orphaned file %s", stored)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sweep media root: %w", err)
	}

	log.Printf("Sweep finished, removed %d file(s)", removed)
	return nil
}
