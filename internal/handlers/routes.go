package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the public routes. uploadGate middlewares wrap only the
// upload endpoint, outermost first. Non-POST requests to the upload path
// get mux's 405.
func NewRouter(h *Handlers, uploadGate ...func(http.Handler) http.Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/custom/{ref}", h.GetCustomFeed).Methods(http.MethodGet)
	r.PathPrefix("/media/").HandlerFunc(h.ServeMediaFile).Methods(http.MethodGet)

	var upload http.Handler = http.HandlerFunc(h.UploadEpisode)
	for i := len(uploadGate) - 1; i >= 0; i-- {
		upload = uploadGate[i](upload)
	}
	r.Handle("/{podcast}/upload", upload).Methods(http.MethodPost)
	r.HandleFunc("/{podcast}/rss", h.GetPodcastFeed).Methods(http.MethodGet)

	return r
}
