package models

import "time"

// Episode is one audio item of a podcast. It shows up in feeds only once
// Published is set; nil means draft.
type Episode struct {
	ID          int64      `db:"id"`
	PodcastID   int64      `db:"podcast_id"`
	Title       string     `db:"title"`
	Image       string     `db:"image"`
	PublicImage string     `db:"public_image"`
	Author      string     `db:"author"`
	Description string     `db:"description"`
	Audio       string     `db:"audio"` // stored path: episodes/<podcast-slug>/<name>
	Published   *time.Time `db:"published"`
	Timestamps
}
