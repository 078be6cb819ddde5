package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"podhost/internal/media"
	"podhost/internal/test"
)

var customFeedColumns = []string{"id", "podcast_id", "ref", "title", "created", "updated"}

// writeAudioFile puts a sniffable mp3 under the store so the resolver can
// stat and type it at render time.
func writeAudioFile(t *testing.T, store *media.Store, stored string) int64 {
	t.Helper()
	abs := store.Abs(stored)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("failed to create media dir: %v", err)
	}
	content := mp3Content()
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		t.Fatalf("failed to write audio file: %v", err)
	}
	return int64(len(content))
}

func expectEpisodes(mock sqlmock.Sqlmock, published time.Time) {
	now := time.Now()
	rows := sqlmock.NewRows(episodeColumns).
		AddRow(7, 1, "Episode Two", "", "https://img.example.com/two.png",
			"", "Second", "episodes/tech-weekly/two.mp3", published, now, now)
	mock.ExpectQuery(`SELECT \* FROM episodes\s+WHERE podcast_id = \$1 AND published IS NOT NULL`).
		WithArgs(int64(1)).WillReturnRows(rows)
}

func TestGetPodcastFeed(t *testing.T) {
	t.Setenv("BASE_URL", "")
	_, mock := test.NewMockDB(t)
	h, store := newTestHandlers(t)
	router := NewRouter(h)

	size := writeAudioFile(t, store, "episodes/tech-weekly/two.mp3")
	published := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE slug = \$1`).
		WithArgs("tech-weekly").WillReturnRows(podcastRow())
	expectEpisodes(mock, published)

	req := httptest.NewRequest(http.MethodGet, "/tech-weekly/rss", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.Contains(t, body, "<link>http://example.com/tech-weekly/rss</link>")
	assert.Contains(t, body, `<atom:link href="http://example.com/tech-weekly/rss" rel="self"></atom:link>`)
	assert.Contains(t, body, "<guid>7</guid>")
	assert.Contains(t, body, "<pubDate>Sun, 10 Mar 2024 12:00:00 +0000</pubDate>")
	assert.Contains(t, body, `<enclosure length="67" type="audio/mpeg" url="http://example.com/media/episodes/tech-weekly/two.mp3"></enclosure>`)
	assert.EqualValues(t, 67, size)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPodcastFeedNotFound(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h, _ := newTestHandlers(t)
	router := NewRouter(h)

	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE slug = \$1`).
		WithArgs("missing").WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/missing/rss", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<item>")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomFeed(t *testing.T) {
	t.Setenv("BASE_URL", "")
	_, mock := test.NewMockDB(t)
	h, store := newTestHandlers(t)
	router := NewRouter(h)

	writeAudioFile(t, store, "episodes/tech-weekly/two.mp3")
	published := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	ref := "0c7e9426-9b41-4b6c-93cf-4a1cb79b8e21"

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM custom_feeds WHERE ref = \$1`).
		WithArgs(ref).
		WillReturnRows(sqlmock.NewRows(customFeedColumns).AddRow(3, 1, ref, "Alt Feed", now, now))
	mock.ExpectQuery(`SELECT \* FROM podcasts WHERE id = \$1`).
		WithArgs(int64(1)).WillReturnRows(podcastRow())
	expectEpisodes(mock, published)

	req := httptest.NewRequest(http.MethodGet, "/custom/"+ref, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	// Same episodes, custom identity in the feed links.
	assert.Contains(t, body, "<link>http://example.com/custom/"+ref+"</link>")
	assert.Contains(t, body, `<atom:link href="http://example.com/custom/`+ref+`" rel="self"></atom:link>`)
	assert.Contains(t, body, "<guid>7</guid>")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomFeedNotFound(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h, _ := newTestHandlers(t)
	router := NewRouter(h)

	mock.ExpectQuery(`SELECT \* FROM custom_feeds WHERE ref = \$1`).
		WithArgs("nope").WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/custom/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServeMediaFileRejectsTraversal(t *testing.T) {
	test.NewMockDB(t)
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/media/..%2Fsecret", nil)
	rr := httptest.NewRecorder()
	h.ServeMediaFile(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
