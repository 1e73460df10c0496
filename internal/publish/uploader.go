package publish

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/dvloznov/report-uploader/internal/ledger"
	"github.com/dvloznov/report-uploader/internal/logger"
	"github.com/dvloznov/report-uploader/internal/report"
	"github.com/dvloznov/report-uploader/internal/storage"
)

// ErrMetadataNotRegistered wraps index failures that happen after the file
// was stored. The stored object is left in place.
var ErrMetadataNotRegistered = errors.New("file stored but metadata not registered")

// Options holds the collaborators of an Uploader.
type Options struct {
	Fs        afero.Fs
	SourceDir string
	Profile   Profile

	Ledger  ledger.Store
	Storage storage.ObjectStorage
	Index   storage.MetadataIndex

	// Now is optional; time.Now is used when nil.
	Now func() time.Time
}

// Uploader runs the upload sequence for one cadence.
type Uploader struct {
	fs        afero.Fs
	sourceDir string
	profile   Profile
	ledger    ledger.Store
	storage   storage.ObjectStorage
	index     storage.MetadataIndex
	now       func() time.Time
}

// New validates opts and returns an Uploader.
func New(opts Options) (*Uploader, error) {
	if opts.Fs == nil {
		return nil, errors.New("publish: filesystem is required")
	}
	if opts.SourceDir == "" {
		return nil, errors.New("publish: source directory is required")
	}
	if opts.Ledger == nil || opts.Storage == nil || opts.Index == nil {
		return nil, errors.New("publish: ledger, storage and index are required")
	}
	if err := opts.Profile.Validate(); err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Uploader{
		fs:        opts.Fs,
		sourceDir: opts.SourceDir,
		profile:   opts.Profile,
		ledger:    opts.Ledger,
		storage:   opts.Storage,
		index:     opts.Index,
		now:       now,
	}, nil
}

// Profile returns the profile the uploader was built with.
func (u *Uploader) Profile() Profile {
	return u.profile
}

// DestinationResult is the outcome of uploading a report to one destination.
type DestinationResult struct {
	Destination string
	StoragePath string

	// Skipped is set when the ledger already held the upload.
	Skipped bool

	Err error
}

// OK reports whether the destination holds the report after the attempt.
func (r DestinationResult) OK() bool {
	return r.Err == nil
}

// UploadToDestination copies cand to dest and registers its metadata.
//
// The sequence is ledger check, file read, storage upload, metadata
// registration and ledger write. A failing step aborts the destination
// without recording it. Ledger read and write failures are logged and never
// fail the upload.
func (u *Uploader) UploadToDestination(ctx context.Context, cand report.Candidate, dest Destination, force bool) DestinationResult {
	periodKey := report.PeriodKey(u.profile.Cadence, cand.Date)
	key := ledger.NewKey(cand.Filename, cand.Size, periodKey, u.profile.ledgerDestination(dest))
	objectPath := objectPath(dest.RemotePath, Sanitize(cand.Filename))

	log := logger.FromContext(ctx).With().
		Str("destination", dest.Name).
		Str("file", cand.Filename).
		Str("storage_path", objectPath).
		Logger()
	result := DestinationResult{Destination: dest.Name, StoragePath: objectPath}

	// 1. Skip uploads the ledger already holds.
	if !force {
		recorded, err := u.ledger.IsRecorded(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("Ledger lookup failed, uploading anyway")
		}
		if recorded {
			log.Info().Str("ledger_key", string(key)).Msg("Report already uploaded")
			result.Skipped = true
			return result
		}
	}

	// 2. Read the file bytes.
	body, err := afero.ReadFile(u.fs, cand.Path)
	if err != nil {
		result.Err = fmt.Errorf("UploadToDestination: reading %s: %w", cand.Path, err)
		log.Error().Err(result.Err).Msg("Upload aborted")
		return result
	}
	contentType := ContentType(cand.Filename, body)

	// 3. Transfer the bytes to object storage.
	log.Info().Int64("size", cand.Size).Str("content_type", contentType).Msg("Uploading report")
	if err := u.storage.Upload(ctx, objectPath, contentType, body); err != nil {
		result.Err = fmt.Errorf("UploadToDestination: uploading %s: %w", objectPath, err)
		log.Error().Err(result.Err).Msg("Upload failed")
		return result
	}

	// 4. Register the document metadata.
	now := u.now()
	doc := &storage.DocumentRecord{
		Name:         cand.Filename,
		OriginalName: cand.Filename,
		FilePath:     objectPath,
		FileURL:      u.storage.PublicURL(objectPath),
		Size:         cand.Size,
		MimeType:     contentType,
		FolderID:     dest.FolderID,
		UploadedBy:   u.profile.uploadedBy(dest),
		Description:  u.profile.description(periodKey, dest),
		Tags:         u.profile.tags(dest),
		Category:     u.profile.Category,
		Plant:        u.profile.Plant,
		CreatedAt:    now,
		UpdatedAt:    now,
		ReportDate:   cand.Date,
	}
	if err := u.index.Register(ctx, doc); err != nil {
		result.Err = fmt.Errorf("UploadToDestination: %w: %w", ErrMetadataNotRegistered, err)
		log.Warn().Err(err).Msg("File uploaded to storage but not registered in the index")
		return result
	}

	// 5. Record the upload.
	rec := ledger.Record{
		UploadID:    uuid.NewString(),
		Filename:    cand.Filename,
		Size:        cand.Size,
		PeriodKey:   periodKey,
		Destination: u.profile.ledgerDestination(dest),
		StoragePath: objectPath,
		UploadedAt:  now,
	}
	if err := u.ledger.Record(ctx, key, rec); err != nil {
		log.Error().Err(err).Msg("Failed to record upload in ledger")
	}

	log.Info().Msg("Upload completed")
	return result
}

func objectPath(remotePath, name string) string {
	remotePath = strings.Trim(remotePath, "/")
	if remotePath == "" {
		return name
	}
	return path.Join(remotePath, name)
}
