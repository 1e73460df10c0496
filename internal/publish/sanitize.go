package publish

import (
	"mime"
	"path"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_",
	"/", "_", `\`, "_", "|", "_", "?", "_", "*", "_",
)

// Sanitize makes a file name safe for object storage keys: accents are
// stripped and characters reserved by common filesystems become '_'.
func Sanitize(name string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}
	return unsafeChars.Replace(stripped)
}

// ContentType detects the MIME type of body. Generic results fall back to
// the type registered for the file extension.
func ContentType(filename string, body []byte) string {
	detected := mimetype.Detect(body)
	if detected.Is("application/octet-stream") || detected.Is("text/plain") {
		if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(filename))); byExt != "" {
			return byExt
		}
	}
	return detected.String()
}
