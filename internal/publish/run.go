package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/report-uploader/internal/logger"
	"github.com/dvloznov/report-uploader/internal/report"
)

// Status summarizes a run over all destinations.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// availableListed is how many candidates are logged when the target window
// is empty.
const availableListed = 5

// Outcome is the result of Run.
type Outcome struct {
	Status Status

	// Candidate is nil when no report was selected.
	Candidate *report.Candidate
	Selection report.Selection
	Results   []DestinationResult

	Err error
}

// ExitCode maps the outcome to a process exit code.
func (o Outcome) ExitCode() int {
	if o.Status == StatusSuccess {
		return 0
	}
	return 1
}

// Run selects the report for the current period and uploads it to every
// destination of the profile. force bypasses the schedule gate and the
// ledger.
func (u *Uploader) Run(ctx context.Context, force bool) Outcome {
	log := logger.FromContext(ctx)
	now := u.now()
	c := u.profile.Cadence

	if !force {
		if err := report.Gate(c, now); err != nil {
			log.Warn().Err(err).Msg("Not a scheduled day, run with force to upload anyway")
			return Outcome{Status: StatusFailed, Err: err}
		}
	}

	candidates, err := report.Scan(u.fs, u.sourceDir, u.profile.Patterns)
	if err != nil {
		log.Error().Err(err).Str("source_dir", u.sourceDir).Msg("Failed to scan source directory")
		return Outcome{Status: StatusFailed, Err: err}
	}

	window := report.Resolve(c, now)
	log.Info().
		Str("window", window.String()).
		Int("candidates", len(candidates)).
		Msg("Looking for report")

	cand, sel, err := report.Select(c, now, candidates)
	if err != nil {
		log.Error().Err(err).Msg("No report to upload")
		logAvailable(ctx, candidates)
		return Outcome{Status: StatusFailed, Err: err}
	}
	if sel == report.SelectedFallback {
		log.Warn().
			Str("window", window.String()).
			Str("file", cand.Filename).
			Msg("No report in target window, using most recent as fallback")
		logAvailable(ctx, candidates)
	}
	log.Info().
		Str("file", cand.Filename).
		Str("date", cand.Date.String()).
		Int64("size", cand.Size).
		Time("modified", cand.ModTime).
		Msg("Report selected")

	out := Outcome{Candidate: &cand, Selection: sel}
	var errs []error
	for _, dest := range u.profile.Destinations {
		res := u.UploadToDestination(ctx, cand, dest, force)
		out.Results = append(out.Results, res)
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("destination %q: %w", dest.Name, res.Err))
		}
	}

	switch {
	case len(errs) == 0:
		out.Status = StatusSuccess
		log.Info().Int("destinations", len(out.Results)).Msg("Report published to every destination")
	case len(errs) < len(out.Results):
		out.Status = StatusPartial
		out.Err = errors.Join(errs...)
		ev := log.Warn()
		for _, r := range out.Results {
			ev = ev.Bool(r.Destination, r.OK())
		}
		ev.Msg("Partial upload, some destinations failed")
	default:
		out.Status = StatusFailed
		out.Err = errors.Join(errs...)
		log.Error().Msg("Upload failed for every destination")
	}
	return out
}

func logAvailable(ctx context.Context, candidates []report.Candidate) {
	log := logger.FromContext(ctx)
	for _, c := range report.Newest(candidates, availableListed) {
		log.Info().Str("file", c.Filename).Str("date", c.Date.String()).Msg("Available report")
	}
}
