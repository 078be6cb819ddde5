// Package ingest validates and persists uploaded episodes.
package ingest

import (
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"podhost/internal/db"
	"podhost/internal/media"
	"podhost/internal/models"
	"podhost/pkg/tasks"
)

// FieldError is one validation failure on one field.
type FieldError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// FieldErrors maps a field name to its ordered list of failures. All
// failures are collected before returning; callers get the full set, not
// just the first.
type FieldErrors map[string][]FieldError

func (fe FieldErrors) Add(field, message, code string) {
	fe[field] = append(fe[field], FieldError{Message: message, Code: code})
}

// Fields are the plain form values of an upload request.
type Fields struct {
	Title       string
	PublicImage string
	Author      string
	Description string
	Publish     bool
}

// Ingestor runs the validate-then-persist path for new episodes.
type Ingestor struct {
	store    *media.Store
	enqueuer tasks.TaskEnqueuer
}

// New returns an Ingestor. enqueuer may be nil; it is only a backstop for
// cleanup when compensation fails.
func New(store *media.Store, enqueuer tasks.TaskEnqueuer) *Ingestor {
	return &Ingestor{store: store, enqueuer: enqueuer}
}

// Process validates the upload and, when valid, stores the files and
// inserts the episode row. On validation failure it returns the field
// error map and persists nothing. A non-nil error means a fault below the
// validation layer (store I/O, database), not bad input.
func (in *Ingestor) Process(podcast models.Podcast, fields Fields, audio, image *multipart.FileHeader) (models.Episode, FieldErrors, error) {
	fieldErrs := FieldErrors{}

	title := strings.TrimSpace(fields.Title)
	if title == "" {
		fieldErrs.Add("title", "this field is required", "required")
	} else {
		exists, err := db.EpisodeTitleExists(title)
		if err != nil {
			return models.Episode{}, nil, fmt.Errorf("failed to check title uniqueness: %w", err)
		}
		if exists {
			fieldErrs.Add("title", "episode with this title already exists", "unique")
		}
	}

	if audio == nil {
		fieldErrs.Add("audio", "this field is required", "required")
	} else {
		src, err := audio.Open()
		if err != nil {
			return models.Episode{}, nil, fmt.Errorf("failed to open uploaded audio: %w", err)
		}
		mimeType := media.SniffAudio(src)
		src.Close()
		if mimeType == "" {
			fieldErrs.Add("audio", "file content is not a supported audio type", "invalid_type")
		}
	}

	if len(fieldErrs) > 0 {
		return models.Episode{}, fieldErrs, nil
	}

	audioPath, err := in.store.SaveAudio(podcast.Slug, audio)
	if err != nil {
		return models.Episode{}, nil, err
	}
	stored := []string{audioPath}

	imagePath := ""
	if image != nil {
		imagePath, err = in.store.SaveImage(image)
		if err != nil {
			in.discard(stored)
			return models.Episode{}, nil, err
		}
		stored = append(stored, imagePath)
	}

	episode := models.Episode{
		PodcastID:   podcast.ID,
		Title:       title,
		Image:       imagePath,
		PublicImage: fields.PublicImage,
		Author:      fields.Author,
		Description: fields.Description,
		Audio:       audioPath,
	}
	if fields.Publish {
		now := time.Now().UTC()
		episode.Published = &now
	}

	saved, err := db.CreateEpisode(episode)
	if err != nil {
		// The row did not land, so the files must not stay resolvable.
		in.discard(stored)
		if db.IsUniqueViolation(err, "episodes_title_key") {
			// Lost the check-then-insert race; same outcome as the
			// pre-check.
			fieldErrs.Add("title", "episode with this title already exists", "unique")
			return models.Episode{}, fieldErrs, nil
		}
		return models.Episode{}, nil, fmt.Errorf("failed to create episode: %w", err)
	}

	return saved, nil, nil
}

func (in *Ingestor) discard(stored []string) {
	var failed []string
	for _, p := range stored {
		if err := in.store.Remove(p); err != nil {
			log.Printf("Failed to remove stored file %s: %v", p, err)
			failed = append(failed, p)
		}
	}
	if len(failed) == 0 || in.enqueuer == nil {
		return
	}
	task, err := tasks.NewMediaCleanupTask(failed)
	if err != nil {
		log.Printf("Failed to create cleanup task: %v", err)
		return
	}
	if _, err := in.enqueuer.Enqueue(task); err != nil {
		log.Printf("Failed to enqueue cleanup task: %v", err)
	}
}
