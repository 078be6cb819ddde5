package media

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
)

// Context carries the request-derived parts needed to build absolute URLs.
// It is passed explicitly instead of being stashed on loaded entities.
type Context struct {
	Scheme string
	Host   string
}

// ContextFromRequest derives the URL context for one request. BASE_URL
// overrides everything so feeds keep stable URLs behind proxies that
// rewrite Host.
func ContextFromRequest(r *http.Request) Context {
	if base := os.Getenv("BASE_URL"); base != "" {
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			return Context{Scheme: u.Scheme, Host: u.Host}
		}
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return Context{Scheme: scheme, Host: r.Host}
}

// AbsURL turns an absolute path into a full URL for this request.
func (c Context) AbsURL(path string) string {
	if c.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s%s", c.Scheme, c.Host, path)
}
