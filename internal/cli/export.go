package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Joseda-hg/lazytodo/internal/config"
	"github.com/Joseda-hg/lazytodo/internal/snapshot"
)

type exportDocument struct {
	Tasks      []snapshot.TaskRecord     `json:"tasks" yaml:"tasks"`
	Categories []snapshot.CategoryRecord `json:"categories" yaml:"categories"`
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output, file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task and category as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unknown output %q (want json or yaml)", output)
			}

			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			doc := exportDocument{
				Tasks:      taskRecords(session.Tasks.AllTasks()),
				Categories: categoryRecords(session.Categories.Categories()),
			}

			var w io.Writer = cmd.OutOrStdout()
			if file != "" {
				if err := config.EnsureDir(file); err != nil {
					return err
				}
				f, err := os.Create(file)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := writeStructured(w, output, doc); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			if file != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks and %d categories to %s\n", len(doc.Tasks), len(doc.Categories), file)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "export format: json or yaml")
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to file instead of stdout")

	return cmd
}
