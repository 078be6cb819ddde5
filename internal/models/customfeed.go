package models

// CustomFeed exposes the same episodes as its parent podcast under an
// opaque token-addressed URL instead of the podcast slug.
type CustomFeed struct {
	ID        int64  `db:"id"`
	PodcastID int64  `db:"podcast_id"`
	Ref       string `db:"ref"`
	Title     string `db:"title"`
	Timestamps
}
