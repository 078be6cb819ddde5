package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"podhost/internal/db"
	"podhost/internal/feed"
	"podhost/internal/media"
	"podhost/internal/models"
)

func (h *Handlers) GetPodcastFeed(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["podcast"]

	podcast, err := db.GetPodcastBySlug(slug)
	if err != nil {
		http.Error(w, "Podcast not found", http.StatusNotFound)
		return
	}

	h.renderFeed(w, r, podcast, feed.SlugIdentity(slug))
}

func (h *Handlers) GetCustomFeed(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ref := vars["ref"]

	customFeed, err := db.GetCustomFeedByRef(ref)
	if err != nil {
		http.Error(w, "Feed not found", http.StatusNotFound)
		return
	}

	podcast, err := db.GetPodcastByID(customFeed.PodcastID)
	if err != nil {
		log.Printf("Error loading podcast %d for custom feed %s: %v", customFeed.PodcastID, ref, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.renderFeed(w, r, podcast, feed.RefIdentity(ref))
}

func (h *Handlers) renderFeed(w http.ResponseWriter, r *http.Request, podcast models.Podcast, id feed.Identity) {
	episodes, err := db.GetPublishedEpisodes(podcast.ID)
	if err != nil {
		log.Printf("Error getting episodes for podcast %s: %v", podcast.Slug, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resolver := media.NewResolver(h.store.Root(), media.ContextFromRequest(r))
	body, err := feed.Generate(podcast, episodes, id, resolver, h.feedConfig)
	if err != nil {
		log.Printf("Error generating feed for podcast %s: %v", podcast.Slug, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write(body)
}

// ServeMediaFile serves stored audio and image files under /media/.
func (h *Handlers) ServeMediaFile(w http.ResponseWriter, r *http.Request) {
	stored := strings.TrimPrefix(r.URL.Path, "/media/")
	if stored == "" || strings.Contains(stored, "..") {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, h.store.Abs(stored))
}
