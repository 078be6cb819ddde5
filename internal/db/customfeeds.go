package db

import (
	"github.com/google/uuid"

	"podhost/internal/models"
)

// CreateCustomFeed mints a fresh reference token for the feed; the token
// is the only public identifier a custom feed has.
func CreateCustomFeed(podcastID int64, title string) (models.CustomFeed, error) {
	query := `
		INSERT INTO custom_feeds (podcast_id, ref, title)
		VALUES ($1, $2, $3)
		RETURNING *
	`
	feed := models.CustomFeed{}
	err := DB.Get(&feed, query, podcastID, uuid.NewString(), title)
	return feed, err
}

func GetCustomFeedByRef(ref string) (models.CustomFeed, error) {
	feed := models.CustomFeed{}
	err := DB.Get(&feed, "SELECT * FROM custom_feeds WHERE ref = $1", ref)
	return feed, err
}

func DeleteCustomFeed(id int64) error {
	_, err := DB.Exec("DELETE FROM custom_feeds WHERE id = $1", id)
	return err
}
