package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/dvloznov/report-uploader/internal/config"
	bq "github.com/dvloznov/report-uploader/internal/infra/bigquery"
	"github.com/dvloznov/report-uploader/internal/logger"
)

type migrateCmd struct {
	configPath string
	projectID  string
	datasetID  string
	appliedBy  string
}

// NewMigrateCommand returns the migrate command, which creates the BigQuery
// tables used by the bigquery index backend.
func NewMigrateCommand() *cobra.Command {
	mc := &migrateCmd{}
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply BigQuery migrations for the document index",
		Args:          cobra.NoArgs,
		RunE:          mc.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&mc.configPath, "config", "c", "", "Path to the configuration file")
	cmd.Flags().StringVar(&mc.projectID, "project", "", "GCP project ID (default index.project_id)")
	cmd.Flags().StringVar(&mc.datasetID, "dataset", "", "BigQuery dataset ID (default index.dataset)")
	cmd.Flags().StringVar(&mc.appliedBy, "applied-by", "migrate-cli", "Name of the tool applying migrations")

	return cmd
}

func (mc *migrateCmd) run(cmd *cobra.Command, _ []string) error {
	log := logger.New()
	ctx := logger.WithContext(cmd.Context(), log)

	cfg, err := config.Load(mc.configPath)
	if err != nil {
		return err
	}
	projectID, datasetID := cfg.Index.ProjectID, cfg.Index.Dataset
	if mc.projectID != "" {
		projectID = mc.projectID
	}
	if mc.datasetID != "" {
		datasetID = mc.datasetID
	}
	if projectID == "" || datasetID == "" {
		return errors.New("a GCP project and dataset are required (--project/--dataset or index.project_id/index.dataset)")
	}

	migrations, err := bq.Migrations()
	if err != nil {
		return err
	}

	var opts []option.ClientOption
	if cfg.Storage.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Storage.CredentialsFile))
	}
	migrator, err := bq.NewMigrator(ctx, projectID, datasetID, cfg.Index.Table, mc.appliedBy, opts...)
	if err != nil {
		return err
	}
	defer migrator.Close()

	log.Info().Str("project", projectID).Str("dataset", datasetID).Msg("Connected to BigQuery")
	applied, err := migrator.Up(ctx, migrations, log)
	if err != nil {
		return err
	}
	if applied == 0 {
		log.Info().Msg("No new migrations to apply. Dataset is up to date.")
	} else {
		log.Info().Int("applied", applied).Msg("Migrations applied")
	}
	return nil
}
