package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where configuration and snapshots are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadConfig(opts)
			if err != nil {
				return err
			}

			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			names, err := session.SnapshotNames(cmd.Context())
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}
			snapshots := "(none)"
			if len(names) > 0 {
				snapshots = strings.Join(names, ", ")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config:    %s\n", cfgPath)
			fmt.Fprintf(out, "Storage:   %s\n", cfg.Storage)
			fmt.Fprintf(out, "Location:  %s\n", session.Location())
			fmt.Fprintf(out, "Snapshots: %s\n", snapshots)
			fmt.Fprintf(out, "Log:       %s\n", cfg.LogPath)
			fmt.Fprintf(out, "Tasks:     %d\n", len(session.Tasks.AllTasks()))
			fmt.Fprintf(out, "Categories: %d\n", len(session.Categories.Categories()))
			return nil
		},
	}
}
