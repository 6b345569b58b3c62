package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/snapshot"
)

func newCategoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(newCategoryListCmd(opts))
	cmd.AddCommand(newCategoryAddCmd(opts))
	cmd.AddCommand(newCategoryRmCmd(opts))
	cmd.AddCommand(newCategoryRenameCmd(opts))

	return cmd
}

func newCategoryListCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories with their task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			categories := session.Categories.Categories()
			switch output {
			case "json", "yaml":
				return writeStructured(cmd.OutOrStdout(), output, categoryRecords(categories))
			case "", "table":
			default:
				return fmt.Errorf("unknown output %q (want table, json or yaml)", output)
			}

			counts := make(map[string]int)
			for _, task := range session.Tasks.AllTasks() {
				counts[session.Categories.ResolveCategory(task.CategoryID).ID]++
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tTASKS")
			for _, category := range categories {
				color := "-"
				if category.Color != "" {
					color = model.LabelForColor(category.Color)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", category.ID, category.Name, color, counts[category.ID])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")

	return cmd
}

func newCategoryAddCmd(opts *rootOptions) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return fmt.Errorf("name is required")
			}

			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			created := session.Categories.AddCategory(name, model.NormalizeColor(color))
			warnPersist(cmd, session)

			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s %q\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "palette label or color value")

	return cmd
}

func newCategoryRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id|name>",
		Short: "Delete a category; its tasks show as uncategorized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			category, err := resolveCategory(session.Categories.Categories(), args[0])
			if err != nil {
				return err
			}
			if category.ID == model.UncategorizedID {
				return fmt.Errorf("the %s category cannot be deleted", model.UncategorizedName)
			}
			session.Categories.DeleteCategory(category.ID)
			warnPersist(cmd, session)

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %q\n", category.Name)
			return nil
		},
	}
}

func newCategoryRenameCmd(opts *rootOptions) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "rename <id|name> <new name>",
		Short: "Rename a category or change its color",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			if name == "" {
				return fmt.Errorf("name is required")
			}

			session, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			category, err := resolveCategory(session.Categories.Categories(), args[0])
			if err != nil {
				return err
			}
			patch := model.CategoryPatch{Name: &name}
			if cmd.Flags().Changed("color") {
				patch.Color = model.StringPtr(model.NormalizeColor(color))
			}
			session.Categories.UpdateCategory(category.ID, patch)
			warnPersist(cmd, session)

			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", category.Name, name)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "palette label or color value")

	return cmd
}

// resolveCategory matches an id first, then a case-insensitive name.
func resolveCategory(categories []model.Category, ref string) (model.Category, error) {
	ref = strings.TrimSpace(ref)
	for _, category := range categories {
		if category.ID == ref {
			return category, nil
		}
	}
	for _, category := range categories {
		if strings.EqualFold(category.Name, ref) {
			return category, nil
		}
	}
	return model.Category{}, fmt.Errorf("category %s not found", ref)
}

func categoryRecords(categories []model.Category) []snapshot.CategoryRecord {
	records := make([]snapshot.CategoryRecord, 0, len(categories))
	for _, category := range categories {
		records = append(records, snapshot.CategoryToRecord(category))
	}
	return records
}
