package models

// Podcast is a named collection of episodes rendered as one RSS feed.
type Podcast struct {
	ID          int64  `db:"id"`
	Slug        string `db:"slug"`
	Title       string `db:"title"`
	Link        string `db:"link"`
	Image       string `db:"image"`        // stored path relative to the media root
	PublicImage string `db:"public_image"` // fallback URL, lower priority than Image
	Author      string `db:"author"`
	Description string `db:"description"`
	Subtitle    string `db:"subtitle"`
	Keywords    string `db:"keywords"`
	Copyright   string `db:"copyright"`
	Timestamps
}
