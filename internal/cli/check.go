package cli

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dvloznov/report-uploader/internal/config"
	"github.com/dvloznov/report-uploader/internal/report"
	"github.com/dvloznov/report-uploader/internal/supabase"
)

type checkCmd struct {
	configPath string
	fs         afero.Fs
	now        func() time.Time
}

// NewCheckCommand returns the check command. It validates the configuration,
// shows which report each cadence would pick and confirms the document
// library is reachable, without uploading anything or touching the ledgers.
func NewCheckCommand() *cobra.Command {
	cc := &checkCmd{fs: afero.NewOsFs(), now: time.Now}
	cmd := &cobra.Command{
		Use:           "check",
		Short:         "Check configuration, report selection and connectivity",
		Args:          cobra.NoArgs,
		RunE:          cc.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&cc.configPath, "config", "c", "", "Path to the configuration file")

	return cmd
}

func (cc *checkCmd) run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(cc.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(out, "config: ok")

	now := cc.now()
	for _, c := range report.Cadences {
		profile, err := cfg.Profile(c)
		if err != nil {
			return err
		}
		candidates, err := report.Scan(cc.fs, cfg.SourceDir, profile.Patterns)
		if err != nil {
			return err
		}
		cand, sel, err := report.Select(c, now, candidates)
		if err != nil {
			fmt.Fprintf(out, "%s: no report to upload (%d candidates)\n", c, len(candidates))
			continue
		}
		fmt.Fprintf(out, "%s: %s (%s)\n", c, cand.Filename, sel)
	}

	if !cfg.UsesSupabase() {
		fmt.Fprintf(out, "supabase: not used (storage=%s, index=%s)\n", cfg.Storage.Backend, cfg.Index.Backend)
		return nil
	}
	client, err := supabase.NewClient(supabase.Config{
		URL:        cfg.Supabase.URL,
		ServiceKey: cfg.Supabase.ServiceKey,
		Bucket:     cfg.Supabase.Bucket,
		Table:      cfg.Supabase.Table,
	})
	if err != nil {
		return err
	}
	if err := client.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("supabase unreachable: %w", err)
	}
	fmt.Fprintln(out, "supabase: ok")
	return nil
}
