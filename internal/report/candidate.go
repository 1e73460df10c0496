package report

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/afero"
)

// Candidate is a report file found in the source directory whose name
// carries a parseable date.
type Candidate struct {
	Path     string
	Filename string
	Date     civil.Date
	Size     int64
	ModTime  time.Time
}

// Scan lists dir and returns every regular file whose name matches one of
// the patterns. Files that do not match are skipped.
func Scan(fsys afero.Fs, dir string, patterns []*regexp.Regexp) ([]Candidate, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceDirMissing, dir)
		}
		return nil, fmt.Errorf("Scan: stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceDirMissing, dir)
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("Scan: reading %q: %w", dir, err)
	}

	var candidates []Candidate
	for _, e := range entries {
		if !e.Mode().IsRegular() {
			continue
		}
		date, ok := ParseDate(e.Name(), patterns)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Path:     filepath.Join(dir, e.Name()),
			Filename: e.Name(),
			Date:     date,
			Size:     e.Size(),
			ModTime:  e.ModTime(),
		})
	}
	return candidates, nil
}
