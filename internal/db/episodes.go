package db

import (
	"podhost/internal/models"
)

// GetPublishedEpisodes returns the podcast's published episodes in feed
// order: newest first, id as the tie-breaker so repeated renders are
// byte-identical.
func GetPublishedEpisodes(podcastID int64) ([]models.Episode, error) {
	query := `
		SELECT * FROM episodes
		WHERE podcast_id = $1 AND published IS NOT NULL
		ORDER BY published DESC, id DESC
	`
	var episodes []models.Episode
	err := DB.Select(&episodes, query, podcastID)
	return episodes, err
}

// EpisodeTitleExists checks the system-wide title uniqueness rule. Titles
// are unique across all podcasts, not per podcast.
func EpisodeTitleExists(title string) (bool, error) {
	var exists bool
	err := DB.Get(&exists, "SELECT EXISTS(SELECT 1 FROM episodes WHERE title = $1)", title)
	return exists, err
}

func CreateEpisode(e models.Episode) (models.Episode, error) {
	query := `
		INSERT INTO episodes (podcast_id, title, image, public_image, author, description, audio, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`
	saved := models.Episode{}
	err := DB.Get(&saved, query,
		e.PodcastID, e.Title, e.Image, e.PublicImage,
		e.Author, e.Description, e.Audio, e.Published)
	return saved, err
}

func GetEpisodeByID(id int64) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1", id)
	return episode, err
}

func DeleteEpisode(id int64) error {
	_, err := DB.Exec("DELETE FROM episodes WHERE id = $1", id)
	return err
}

// AllMediaPaths returns every stored file path any row references: episode
// audio and images plus podcast images. The sweep task keeps everything in
// this set.
func AllMediaPaths() ([]string, error) {
	query := `
		SELECT audio AS path FROM episodes
		UNION
		SELECT image FROM episodes WHERE image <> ''
		UNION
		SELECT image FROM podcasts WHERE image <> ''
	`
	var paths []string
	err := DB.Select(&paths, query)
	return paths, err
}
