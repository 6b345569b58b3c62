package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/snapshot"
	"github.com/Joseda-hg/lazytodo/internal/store"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var due, description, category, color string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return fmt.Errorf("title is required")
			}
			dueDate, err := model.ParseDue(due)
			if err != nil {
				return err
			}

			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			categoryID := ""
			if category != "" {
				found, err := resolveCategory(session.Categories.Categories(), category)
				if err != nil {
					return err
				}
				categoryID = found.ID
			}

			created := session.Tasks.AddTask(model.TaskInput{
				Title:       title,
				Description: strings.TrimSpace(description),
				CategoryID:  categoryID,
				Color:       model.NormalizeColor(color),
				DueDate:     dueDate,
			})
			warnPersist(cmd, session)

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q due %s\n", shortID(created.ID), created.Title, model.FormatDue(created.DueDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	cmd.Flags().StringVar(&color, "color", "", "palette label or color value")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var category, color, date, query, output string

	cmd := &cobra.Command{
		Use:   "list [view]",
		Short: "List tasks (views: all, pending, today, upcoming, completed, overdue)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewArg := ""
			if len(args) == 1 {
				viewArg = args[0]
			}
			view, ok := model.ParseView(viewArg)
			if !ok {
				return fmt.Errorf("unknown view %q", viewArg)
			}

			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			filter := model.Filter{
				View:  view,
				Color: model.NormalizeColor(color),
				Date:  strings.TrimSpace(date),
				Query: strings.TrimSpace(query),
			}
			if category != "" {
				found, err := resolveCategory(session.Categories.Categories(), category)
				if err != nil {
					return err
				}
				filter.CategoryID = found.ID
			}

			tasks := session.Tasks.Query(filter)
			switch output {
			case "json", "yaml":
				return writeStructured(cmd.OutOrStdout(), output, taskRecords(tasks))
			case "", "table":
			default:
				return fmt.Errorf("unknown output %q (want table, json or yaml)", output)
			}

			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}

			now := session.Tasks.Now()
			midnight := store.StartOfDay(now)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tDUE\tWHEN\tCATEGORY\tTITLE")
			for _, task := range tasks {
				status := "pending"
				switch {
				case task.Completed:
					status = "done"
				case task.DueDate.Before(midnight):
					status = "overdue"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(task.ID),
					status,
					model.FormatDue(task.DueDate),
					humanize.RelTime(task.DueDate, now, "ago", "from now"),
					session.Categories.ResolveCategory(task.CategoryID).Name,
					task.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	cmd.Flags().StringVar(&color, "color", "", "palette label or color value")
	cmd.Flags().StringVar(&date, "date", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search titles and descriptions")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")

	return cmd
}

func newDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			task, err := resolveTask(session.Tasks.AllTasks(), args[0])
			if err != nil {
				return err
			}
			session.Tasks.ToggleTask(task.ID)
			warnPersist(cmd, session)

			state := "completed"
			if task.Completed {
				state = "pending"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q is now %s\n", shortID(task.ID), task.Title, state)
			return nil
		},
	}
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var title, description, due, category, color string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				trimmed := strings.TrimSpace(title)
				if trimmed == "" {
					return fmt.Errorf("title cannot be empty")
				}
				patch.Title = &trimmed
			}
			if flags.Changed("description") {
				patch.Description = model.StringPtr(strings.TrimSpace(description))
			}
			if flags.Changed("due") {
				dueDate, err := model.ParseDue(due)
				if err != nil {
					return err
				}
				patch.DueDate = &dueDate
			}
			if flags.Changed("color") {
				patch.Color = model.StringPtr(model.NormalizeColor(color))
			}

			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			if flags.Changed("category") {
				found, err := resolveCategory(session.Categories.Categories(), category)
				if err != nil {
					return err
				}
				patch.CategoryID = &found.ID
			}

			task, err := resolveTask(session.Tasks.AllTasks(), args[0])
			if err != nil {
				return err
			}
			session.Tasks.UpdateTask(task.ID, patch)
			warnPersist(cmd, session)

			updated, _ := session.Tasks.Task(task.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %q due %s\n", shortID(updated.ID), updated.Title, model.FormatDue(updated.DueDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&due, "due", "", "new due date")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	cmd.Flags().StringVar(&color, "color", "", "palette label or color value, empty to clear")

	return cmd
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			task, err := resolveTask(session.Tasks.AllTasks(), args[0])
			if err != nil {
				return err
			}
			session.Tasks.DeleteTask(task.ID)
			warnPersist(cmd, session)

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %q\n", shortID(task.ID), task.Title)
			return nil
		},
	}
}

// resolveTask finds a task by full id or by a unique id prefix.
func resolveTask(tasks []model.Task, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, fmt.Errorf("task id is required")
	}

	var matches []model.Task
	for _, task := range tasks {
		if task.ID == ref {
			return task, nil
		}
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task)
		}
	}

	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("task %s not found", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("task id %s is ambiguous (%d matches)", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func taskRecords(tasks []model.Task) []snapshot.TaskRecord {
	records := make([]snapshot.TaskRecord, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, snapshot.TaskToRecord(task))
	}
	return records
}
