package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"
)

// BasicAuth gates the wrapped handler with HTTP basic auth when
// UPLOAD_USER is set. When it is unset the handler stays open and the
// deployment is expected to gate uploads at the reverse proxy instead.
func BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantUser := os.Getenv("UPLOAD_USER")
		if wantUser == "" {
			next.ServeHTTP(w, r)
			return
		}
		wantPassword := os.Getenv("UPLOAD_PASSWORD")

		user, password, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) == 1
		passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPassword)) == 1
		if !ok || !userOK || !passwordOK {
			w.Header().Set("WWW-Authenticate", `Basic realm="podhost"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
