package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Joseda-hg/lazytodo/internal/insight"
	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/snapshot"
)

type statsReport struct {
	Summary insight.Summary       `json:"summary" yaml:"summary"`
	DueSoon []snapshot.TaskRecord `json:"due_soon" yaml:"due_soon"`
	Weekly  []insight.DayCount    `json:"weekly" yaml:"weekly"`
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics, tasks due soon and weekly productivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			all := session.Tasks.AllTasks()
			now := session.Tasks.Now()
			summary := insight.Summarize(all, now)
			dueSoon := insight.DueSoon(all, now, 3)
			weekly := insight.WeeklyProductivity(all, now)

			switch output {
			case "json", "yaml":
				return writeStructured(cmd.OutOrStdout(), output, statsReport{
					Summary: summary,
					DueSoon: taskRecords(dueSoon),
					Weekly:  weekly,
				})
			case "", "table":
			default:
				return fmt.Errorf("unknown output %q (want table, json or yaml)", output)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Tasks")
			fmt.Fprintln(out, strings.Repeat("=", 40))
			fmt.Fprintf(out, "  Total:      %d\n", summary.Total)
			fmt.Fprintf(out, "  Pending:    %d\n", summary.Pending)
			fmt.Fprintf(out, "  Completed:  %d\n", summary.Completed)
			fmt.Fprintf(out, "  Overdue:    %d\n", summary.Overdue)
			fmt.Fprintf(out, "  Completion: %d%%\n", summary.CompletionRate)

			fmt.Fprintln(out, "\nDue soon:")
			if len(dueSoon) == 0 {
				fmt.Fprintln(out, "  (nothing due)")
			}
			for _, task := range dueSoon {
				fmt.Fprintf(out, "  %s  %-16s %s\n", shortID(task.ID), model.FormatDue(task.DueDate), task.Title)
				fmt.Fprintf(out, "            %s\n", humanize.RelTime(task.DueDate, now, "ago", "from now"))
			}

			fmt.Fprintln(out, "\nCompleted this week (by creation day):")
			for _, day := range weekly {
				fmt.Fprintf(out, "  %s  %s %d\n", day.Day.Format("Mon 01-02"), strings.Repeat("#", day.Completed), day.Completed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")

	return cmd
}
