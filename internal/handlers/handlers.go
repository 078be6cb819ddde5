package handlers

import (
	"podhost/internal/feed"
	"podhost/internal/ingest"
	"podhost/internal/media"
	"podhost/pkg/tasks"
)

type Handlers struct {
	store      *media.Store
	ingestor   *ingest.Ingestor
	feedConfig feed.Config
}

func New(store *media.Store, asynqClient tasks.TaskEnqueuer, feedConfig feed.Config) *Handlers {
	return &Handlers{
		store:      store,
		ingestor:   ingest.New(store, asynqClient),
		feedConfig: feedConfig,
	}
}
