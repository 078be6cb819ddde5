package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"podhost/internal/db"
	"podhost/internal/ingest"
)

// maxUploadMemory is the multipart parser's in-memory threshold; larger
// parts spill to temporary files.
const maxUploadMemory = 32 << 20

type uploadResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Code    string             `json:"code"`
	Fields  ingest.FieldErrors `json:"fields,omitempty"`
}

// UploadEpisode accepts a multipart episode upload for the podcast named
// by the slug path variable and reports the outcome as JSON.
func (h *Handlers) UploadEpisode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["podcast"]

	podcast, err := db.GetPodcastBySlug(slug)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, uploadResponse{
			Status:  "error",
			Message: "podcast does not exist",
			Code:    "not_found",
		})
		return
	}
	if err != nil {
		log.Printf("Error loading podcast %s: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, uploadResponse{
			Status:  "error",
			Message: "internal server error",
			Code:    "internal",
		})
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{
			Status:  "error",
			Message: "invalid multipart request",
			Code:    "invalid_data",
		})
		return
	}

	fields := ingest.Fields{
		Title:       r.FormValue("title"),
		PublicImage: r.FormValue("public_image"),
		Author:      r.FormValue("author"),
		Description: r.FormValue("description"),
		Publish:     parseBool(r.FormValue("publish")),
	}

	episode, fieldErrs, err := h.ingestor.Process(podcast, fields, formFile(r, "audio"), formFile(r, "image"))
	if err != nil {
		log.Printf("Error ingesting episode for podcast %s: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, uploadResponse{
			Status:  "error",
			Message: "internal server error",
			Code:    "internal",
		})
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, uploadResponse{
			Status:  "error",
			Message: "validation failed",
			Code:    "invalid_data",
			Fields:  fieldErrs,
		})
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Status:  "ok",
		Message: fmt.Sprintf("episode \"%s\" was uploaded, id=%d", episode.Title, episode.ID),
		Code:    "success",
	})
}

func writeJSON(w http.ResponseWriter, status int, body uploadResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func formFile(r *http.Request, name string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[name]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// parseBool accepts strconv booleans plus the "on" an HTML checkbox
// sends.
func parseBool(v string) bool {
	if v == "on" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
