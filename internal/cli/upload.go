// Package cli builds the cobra commands of the report uploader binaries.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dvloznov/report-uploader/internal/config"
	"github.com/dvloznov/report-uploader/internal/logger"
	"github.com/dvloznov/report-uploader/internal/publish"
	"github.com/dvloznov/report-uploader/internal/report"
)

// forceArg is the optional positional argument that bypasses the ledger and
// the schedule gate.
const forceArg = "force"

type uploadCmd struct {
	cadence    report.Cadence
	configPath string
	logFile    string
	fs         afero.Fs
}

// NewUploadCommand returns the upload-<cadence> command.
func NewUploadCommand(c report.Cadence) *cobra.Command {
	uc := &uploadCmd{cadence: c, fs: afero.NewOsFs()}
	cmd := &cobra.Command{
		Use:           fmt.Sprintf("upload-%s [force]", c),
		Short:         fmt.Sprintf("Upload the %s PV report to its destinations", c),
		Args:          validateForceArg,
		RunE:          uc.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&uc.configPath, "config", "c", "", "Path to the configuration file")
	cmd.Flags().StringVar(&uc.logFile, "log-file", "", fmt.Sprintf("Log file (default <log.dir>/%s_uploader.log)", c))

	return cmd
}

func validateForceArg(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return err
	}
	if len(args) == 1 && !strings.EqualFold(args[0], forceArg) {
		return fmt.Errorf("unknown argument %q, only %q is accepted", args[0], forceArg)
	}
	return nil
}

func (uc *uploadCmd) run(cmd *cobra.Command, args []string) error {
	force := len(args) == 1

	cfg, err := config.Load(uc.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logFile := uc.logFile
	if logFile == "" {
		logFile = filepath.Join(cfg.Log.Dir, fmt.Sprintf("%s_uploader.log", uc.cadence))
	}
	log, closer, err := logger.NewWithFile(logFile, level)
	if err != nil {
		return err
	}
	defer closer.Close()

	log = log.With().
		Str("run_id", uuid.NewString()).
		Str("cadence", uc.cadence.String()).
		Logger()
	ctx := logger.WithContext(cmd.Context(), log)

	profile, err := cfg.Profile(uc.cadence)
	if err != nil {
		return err
	}

	backends, err := OpenBackends(ctx, cfg, uc.fs, uc.cadence, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open backends")
		return err
	}
	defer func() {
		if err := backends.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close backends")
		}
	}()

	uploader, err := publish.New(publish.Options{
		Fs:        uc.fs,
		SourceDir: cfg.SourceDir,
		Profile:   profile,
		Ledger:    backends.Ledger,
		Storage:   backends.Storage,
		Index:     backends.Index,
	})
	if err != nil {
		return err
	}

	log.Info().Bool("force", force).Str("source_dir", cfg.SourceDir).Msg("Starting upload")
	out := uploader.Run(ctx, force)
	if out.ExitCode() != 0 {
		return fmt.Errorf("%s upload %s: %w", uc.cadence, out.Status, out.Err)
	}
	log.Info().Msg("Upload process completed")
	return nil
}
