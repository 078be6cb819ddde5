package media

import (
	"os"
	"path/filepath"
)

// Resolver resolves stored media references into the absolute URLs, byte
// sizes and MIME types the feed advertises. All I/O happens here, before
// the document is rendered.
type Resolver struct {
	root string
	ctx  Context
}

func NewResolver(root string, ctx Context) *Resolver {
	return &Resolver{root: root, ctx: ctx}
}

func (r *Resolver) abs(stored string) string {
	return filepath.Join(r.root, filepath.FromSlash(stored))
}

// AbsURL builds an absolute URL for an arbitrary path on this host.
func (r *Resolver) AbsURL(path string) string {
	return r.ctx.AbsURL(path)
}

// FileURL builds the public URL of a stored file.
func (r *Resolver) FileURL(stored string) string {
	return r.ctx.AbsURL("/media/" + stored)
}

// ImageURL resolves an entity's display image: a locally stored image
// wins, then the public fallback URL, then empty.
func (r *Resolver) ImageURL(stored, public string) string {
	if stored != "" {
		return r.FileURL(stored)
	}
	return public
}

// AudioSize returns the stored audio file's size in bytes, or 0 when the
// file cannot be read.
func (r *Resolver) AudioSize(stored string) int64 {
	info, err := os.Stat(r.abs(stored))
	if err != nil {
		return 0
	}
	return info.Size()
}

// AudioType sniffs the stored audio file's MIME type with the same
// detector ingestion used, so the enclosure type matches what validation
// accepted.
func (r *Resolver) AudioType(stored string) string {
	f, err := os.Open(r.abs(stored))
	if err != nil {
		return fallbackAudioType
	}
	defer f.Close()
	if mt := SniffAudio(f); mt != "" {
		return mt
	}
	return fallbackAudioType
}
