package media

import (
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// fallbackAudioType is advertised when a stored file cannot be re-read at
// render time. Ingestion only stores files that sniffed as audio, so this
// is a last resort, not a validation bypass.
const fallbackAudioType = "audio/mpeg"

// SniffAudio inspects the reader's content and returns its audio MIME
// type, or "" when the content is not audio. Detection is content-based;
// the filename plays no part, so a text file named episode.mp3 is
// rejected. Both ingestion and feed rendering go through this function,
// keeping the validated and the advertised type in agreement.
func SniffAudio(r io.Reader) string {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return ""
	}
	for t := mt; t != nil; t = t.Parent() {
		if strings.HasPrefix(t.String(), "audio/") {
			return mt.String()
		}
	}
	return ""
}
