package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"google.golang.org/api/option"

	"github.com/dvloznov/report-uploader/internal/config"
	"github.com/dvloznov/report-uploader/internal/gcsuploader"
	bq "github.com/dvloznov/report-uploader/internal/infra/bigquery"
	"github.com/dvloznov/report-uploader/internal/ledger"
	"github.com/dvloznov/report-uploader/internal/ledger/jsonfile"
	redisledger "github.com/dvloznov/report-uploader/internal/ledger/redis"
	"github.com/dvloznov/report-uploader/internal/report"
	"github.com/dvloznov/report-uploader/internal/storage"
	"github.com/dvloznov/report-uploader/internal/supabase"
)

// Backends holds the collaborators selected by the configuration.
type Backends struct {
	Ledger  ledger.Store
	Storage storage.ObjectStorage
	Index   storage.MetadataIndex

	closers []io.Closer
}

// Close releases every client opened for the backends.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// OpenBackends builds the ledger, object storage and metadata index for a
// cadence run. Clients opened before a failure are closed.
func OpenBackends(ctx context.Context, cfg *config.Config, fsys afero.Fs, c report.Cadence, log zerolog.Logger) (_ *Backends, err error) {
	b := &Backends{}
	defer func() {
		if err != nil {
			_ = b.Close()
		}
	}()

	switch cfg.Ledger.Backend {
	case "redis":
		client, err := redisledger.Connect(ctx, redisledger.Config{
			Addr:     cfg.Ledger.Redis.Addr,
			Password: cfg.Ledger.Redis.Password,
			DB:       cfg.Ledger.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("OpenBackends: ledger: %w", err)
		}
		b.closers = append(b.closers, client)
		b.Ledger = redisledger.NewStore(client, redisledger.HashName(cfg.Ledger.Redis.Prefix, c.String()))
	default:
		path := filepath.Join(cfg.Ledger.Dir, jsonfile.FileName(c.String()))
		b.Ledger = jsonfile.Open(fsys, path, log)
	}

	var sb *supabase.Client
	if cfg.UsesSupabase() {
		sb, err = supabase.NewClient(supabase.Config{
			URL:        cfg.Supabase.URL,
			ServiceKey: cfg.Supabase.ServiceKey,
			Bucket:     cfg.Supabase.Bucket,
			Table:      cfg.Supabase.Table,
		})
		if err != nil {
			return nil, fmt.Errorf("OpenBackends: supabase: %w", err)
		}
	}

	var gcpOpts []option.ClientOption
	if cfg.Storage.CredentialsFile != "" {
		gcpOpts = append(gcpOpts, option.WithCredentialsFile(cfg.Storage.CredentialsFile))
	}

	switch cfg.Storage.Backend {
	case "gcs":
		gcs, err := gcsuploader.NewStorage(ctx, cfg.Storage.GCSBucket, gcpOpts...)
		if err != nil {
			return nil, fmt.Errorf("OpenBackends: storage: %w", err)
		}
		b.closers = append(b.closers, gcs)
		b.Storage = gcs
	default:
		b.Storage = sb
	}

	switch cfg.Index.Backend {
	case "bigquery":
		index, err := bq.NewDocumentIndex(ctx, cfg.Index.ProjectID, cfg.Index.Dataset, cfg.Index.Table, gcpOpts...)
		if err != nil {
			return nil, fmt.Errorf("OpenBackends: index: %w", err)
		}
		b.closers = append(b.closers, index)
		b.Index = index
	default:
		b.Index = sb
	}

	return b, nil
}
