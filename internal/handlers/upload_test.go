package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"podhost/internal/feed"
	"podhost/internal/media"
	"podhost/internal/test"
)

var podcastColumns = []string{
	"id", "slug", "title", "link", "image", "public_image",
	"author", "description", "subtitle", "keywords", "copyright", "created", "updated",
}

var episodeColumns = []string{
	"id", "podcast_id", "title", "image", "public_image",
	"author", "description", "audio", "published", "created", "updated",
}

func newTestHandlers(t *testing.T) (*Handlers, *media.Store) {
	store := media.NewStore(t.TempDir())
	h := New(store, &test.MockTaskEnqueuer{}, feed.Config{Language: "en-us", TTL: 60})
	return h, store
}

func podcastRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(podcastColumns).
		AddRow(1, "tech-weekly", "Tech Weekly", "https://example.com/tech", "", "",
			"Jane Doe", "Weekly tech news", "All things tech", "tech,news", "2024 Tech Weekly", now, now)
}

func newUploadRequest(t *testing.T, target string, fields map[string]string, audioName string, audioContent []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field %s: %v", k, err)
		}
	}
	if audioName != "" {
		fw, err := w.CreateFormFile("audio", audioName)
		if err != nil {
			t.Fatalf("failed to create audio part: %v", err)
		}
		if _, err := fw.Write(audioContent); err != nil {
			t.Fatalf("failed to write audio part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeUploadResponse(t *testing.T, rr *httptest.ResponseRecorder) uploadResponse {
	t.Helper()
	var resp uploadResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return resp
}

func mp3Content() []byte {
	return append([]byte("ID3"), make([]byte, 64)...)
}

func TestUploadEpisodeSuccess(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h, _ := newTestHandlers(t)
	router := NewRouter(h)

	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE slug = \$1`).
		WithArgs("tech-weekly").WillReturnRows(podcastRow())
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM episodes WHERE title = \$1\)`).
		WithArgs("First Episode").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO episodes`).WillReturnRows(
		sqlmock.NewRows(episodeColumns).
			AddRow(9, 1, "First Episode", "", "", "", "", "episodes/tech-weekly/ep.mp3", now, now, now))

	req := newUploadRequest(t, "/tech-weekly/upload",
		map[string]string{"title": "First Episode", "publish": "true"}, "ep.mp3", mp3Content())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeUploadResponse(t, rr)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "success", resp.Code)
	assert.Equal(t, `episode "First Episode" was uploaded, id=9`, resp.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadEpisodePodcastNotFound(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h, _ := newTestHandlers(t)
	router := NewRouter(h)

	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE slug = \$1`).
		WithArgs("missing").WillReturnError(sql.ErrNoRows)

	req := newUploadRequest(t, "/missing/upload",
		map[string]string{"title": "Anything"}, "ep.mp3", mp3Content())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	resp := decodeUploadResponse(t, rr)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "not_found", resp.Code)
	assert.Equal(t, "podcast does not exist", resp.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadEpisodeMethodNotAllowed(t *testing.T) {
	test.NewMockDB(t)
	h, _ := newTestHandlers(t)
	router := NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/tech-weekly/upload", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestUploadEpisodeValidationFailure(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h, _ := newTestHandlers(t)
	router := NewRouter(h)

	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE slug = \$1`).
		WithArgs("tech-weekly").WillReturnRows(podcastRow())
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM episodes WHERE title = \$1\)`).
		WithArgs("Taken").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	// Duplicate title and non-audio content in one request; both errors
	// must come back together.
	req := newUploadRequest(t, "/tech-weekly/upload",
		map[string]string{"title": "Taken"}, "notes.mp3", []byte("just some notes"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeUploadResponse(t, rr)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "invalid_data", resp.Code)
	assert.Equal(t, "validation failed", resp.Message)
	assert.Equal(t, "unique", resp.Fields["title"][0].Code)
	assert.Equal(t, "invalid_type", resp.Fields["audio"][0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadEpisodeMissingAudio(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h, _ := newTestHandlers(t)
	router := NewRouter(h)

	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE slug = \$1`).
		WithArgs("tech-weekly").WillReturnRows(podcastRow())
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM episodes WHERE title = \$1\)`).
		WithArgs("No Audio").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	req := newUploadRequest(t, "/tech-weekly/upload",
		map[string]string{"title": "No Audio"}, "", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeUploadResponse(t, rr)
	assert.Equal(t, "required", resp.Fields["audio"][0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
