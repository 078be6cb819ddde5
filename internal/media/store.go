package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded files under a single media root. Stored paths
// are slash-separated and relative to the root; they double as the public
// path under /media/.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string {
	return s.root
}

// Abs returns the filesystem path for a stored path.
func (s *Store) Abs(stored string) string {
	return filepath.Join(s.root, filepath.FromSlash(stored))
}

// SaveAudio stores an uploaded audio file under the owning podcast's slug.
func (s *Store) SaveAudio(slug string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded audio: %w", err)
	}
	defer src.Close()
	return s.save(path.Join("episodes", slug), fh.Filename, src)
}

// SaveImage stores an uploaded image file.
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer src.Close()
	return s.save("images", fh.Filename, src)
}

// Remove deletes a stored file. A file that is already gone is not an
// error; Remove is used by failure compensation and the orphan sweep.
func (s *Store) Remove(stored string) error {
	err := os.Remove(s.Abs(stored))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) save(dir, filename string, src io.Reader) (string, error) {
	name := filepath.Base(filepath.FromSlash(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = uuid.NewString()
	}

	if err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(dir)), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	stored := path.Join(dir, name)
	f, err := os.OpenFile(s.Abs(stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		// Name collision: keep the original name visible, add a short
		// unique suffix.
		ext := path.Ext(name)
		stored = path.Join(dir, fmt.Sprintf("%s-%s%s", strings.TrimSuffix(name, ext), uuid.NewString()[:8], ext))
		f, err = os.OpenFile(s.Abs(stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return stored, nil
}
