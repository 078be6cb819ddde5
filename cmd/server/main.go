package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"podhost/internal/db"
	"podhost/internal/feed"
	"podhost/internal/handlers"
	"podhost/internal/media"
	"podhost/internal/middleware"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mediaRoot := os.Getenv("MEDIA_ROOT")
	if mediaRoot == "" {
		mediaRoot = "media"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	feedConfig := feed.Config{Language: "en-us", TTL: 60}
	if lang := os.Getenv("PODCAST_LANGUAGE"); lang != "" {
		feedConfig.Language = lang
	}
	if ttl := os.Getenv("PODCAST_TTL"); ttl != "" {
		n, err := strconv.Atoi(ttl)
		if err != nil {
			log.Fatalf("Invalid PODCAST_TTL %q: %v", ttl, err)
		}
		feedConfig.TTL = n
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	store := media.NewStore(mediaRoot)
	h := handlers.New(store, asynqClient, feedConfig)

	// One upload per second with a small burst is plenty for a
	// publishing endpoint.
	limiter := middleware.NewRateLimiterMiddleware(rate.Every(time.Second), 5)
	router := handlers.NewRouter(h, middleware.BasicAuth, limiter.Middleware)

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
