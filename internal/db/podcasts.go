package db

import (
	"podhost/internal/models"
)

func CreatePodcast(p models.Podcast) (models.Podcast, error) {
	query := `
		INSERT INTO podcasts (slug, title, link, image, public_image, author, description, subtitle, keywords, copyright)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING *
	`
	saved := models.Podcast{}
	err := DB.Get(&saved, query,
		p.Slug, p.Title, p.Link, p.Image, p.PublicImage,
		p.Author, p.Description, p.Subtitle, p.Keywords, p.Copyright)
	return saved, err
}

func GetPodcastBySlug(slug string) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE slug = $1", slug)
	return podcast, err
}

func GetPodcastByID(id int64) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE id = $1", id)
	return podcast, err
}

func UpdatePodcast(p models.Podcast) error {
	query := `
		UPDATE podcasts
		SET slug = $1, title = $2, link = $3, image = $4, public_image = $5,
			author = $6, description = $7, subtitle = $8, keywords = $9,
			copyright = $10, updated = NOW()
		WHERE id = $11
	`
	_, err := DB.Exec(query,
		p.Slug, p.Title, p.Link, p.Image, p.PublicImage,
		p.Author, p.Description, p.Subtitle, p.Keywords, p.Copyright, p.ID)
	return err
}

// DeletePodcast removes the podcast; episodes and custom feeds go with it
// via ON DELETE CASCADE.
func DeletePodcast(id int64) error {
	_, err := DB.Exec("DELETE FROM podcasts WHERE id = $1", id)
	return err
}
