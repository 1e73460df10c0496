package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dvloznov/report-uploader/internal/config"
	"github.com/dvloznov/report-uploader/internal/supabase"
)

type listFoldersCmd struct {
	configPath string
	match      string
}

// NewListFoldersCommand returns the list-folders command, used to look up the
// folder IDs the cadence destinations point at.
func NewListFoldersCommand() *cobra.Command {
	lc := &listFoldersCmd{}
	cmd := &cobra.Command{
		Use:           "list-folders",
		Short:         "List the folders of the document library",
		Args:          cobra.NoArgs,
		RunE:          lc.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&lc.configPath, "config", "c", "", "Path to the configuration file")
	cmd.Flags().StringVar(&lc.match, "match", "", "Only show folders whose name contains this text")

	return cmd
}

func (lc *listFoldersCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(lc.configPath)
	if err != nil {
		return err
	}
	if cfg.Supabase.URL == "" || cfg.Supabase.ServiceKey == "" {
		return errors.New("config: supabase.url and supabase.service_key are required")
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

	folders, err := client.ListFolders(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPARENT")
	match := strings.ToLower(lc.match)
	shown := 0
	for _, f := range folders {
		if match != "" && !strings.Contains(strings.ToLower(f.Name), match) {
			continue
		}
		parent := "-"
		if f.ParentID != nil {
			parent = *f.ParentID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, f.Name, parent)
		shown++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d folders\n", shown, len(folders))
	return nil
}
