// Package jsonfile keeps the upload ledger in a single JSON document on disk,
// one file per cadence.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/dvloznov/report-uploader/internal/ledger"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Store is a file-backed ledger.Store. The whole ledger is loaded when the
// store is opened and rewritten on every Record call.
type Store struct {
	mu      sync.Mutex
	fs      afero.Fs
	path    string
	log     zerolog.Logger
	records map[ledger.Key]ledger.Record

	// undecoded holds entries that are not JSON objects. They count as
	// recorded and are written back unchanged.
	undecoded map[ledger.Key]json.RawMessage
}

// FileName returns the conventional ledger file name for a cadence,
// e.g. uploaded_daily_reports.json.
func FileName(cadence string) string {
	return fmt.Sprintf("uploaded_%s_reports.json", cadence)
}

// Open loads the ledger at path. A missing or unreadable file yields an empty
// ledger, and a file that is not a JSON object is moved to path+".corrupt"
// first. Problems are logged and never returned.
func Open(fsys afero.Fs, path string, log zerolog.Logger) *Store {
	s := &Store{
		fs:      fsys,
		path:    path,
		log:     log.With().Str("ledger", path).Logger(),
		records: make(map[ledger.Key]ledger.Record),

		undecoded: make(map[ledger.Key]json.RawMessage),
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Msg("Could not read upload ledger, starting empty")
		}
		return
	}
	if len(data) == 0 {
		return
	}

	var entries map[ledger.Key]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		s.quarantine(err)
		return
	}

	for key, raw := range entries {
		rec, err := decodeRecord(raw)
		if err != nil {
			s.log.Warn().Err(err).Str("ledger_key", string(key)).Msg("Keeping undecodable ledger entry as is")
			s.undecoded[key] = raw
			continue
		}
		s.records[key] = rec
	}
	s.log.Debug().Int("records", len(entries)).Msg("Loaded upload ledger")
}

// quarantine moves an unparseable ledger aside so the next save does not
// overwrite it.
func (s *Store) quarantine(parseErr error) {
	target := s.path + ".corrupt"
	if err := s.fs.Rename(s.path, target); err != nil {
		s.log.Error().Err(err).Msg("Upload ledger is corrupt and could not be moved aside")
		return
	}
	s.log.Warn().Err(parseErr).Str("moved_to", target).Msg("Upload ledger is corrupt, starting empty")
}

// IsRecorded implements the ledger.Store interface.
func (s *Store) IsRecorded(ctx context.Context, key ledger.Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.undecoded[key]; ok {
		return true, nil
	}
	_, ok := s.records[key]
	return ok, nil
}

// Get implements the ledger.Store interface.
func (s *Store) Get(ctx context.Context, key ledger.Key) (*ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, key)
	}
	return &rec, nil
}

// Record implements the ledger.Store interface. The record stays in memory
// even when writing the file fails, so the current run still sees it.
func (s *Store) Record(ctx context.Context, key ledger.Key, rec ledger.Record) error {
	if key == "" {
		return fmt.Errorf("ledger key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = rec
	delete(s.undecoded, key)
	if err := s.save(); err != nil {
		return fmt.Errorf("Record: saving ledger %q: %w", s.path, err)
	}
	return nil
}

// save writes the ledger to a temporary file next to the target and renames
// it into place.
func (s *Store) save() error {
	out := make(map[ledger.Key]any, len(s.records)+len(s.undecoded))
	for k, raw := range s.undecoded {
		out[k] = raw
	}
	for k, rec := range s.records {
		out[k] = rec
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}

// Ensure Store implements the ledger.Store interface.
var _ ledger.Store = (*Store)(nil)
