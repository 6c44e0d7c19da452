package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-categorizer/internal/cli"
	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show the category taxonomy",
		Long: `Show every category with its allowed labels, in the priority order keyword
groups are evaluated in.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for i, category := range model.CategoryPriority {
				labels := model.LabelsForCategory(category)
				_, _ = fmt.Fprintf(out, "%2d. %s %s\n", i+1,
					cli.BoldStyle.Render(category),
					cli.SubtleStyle.Render(strings.Join(labels, ", ")))
			}
			return nil
		},
	}

	cmd.AddCommand(categoryLabelsCmd())
	return cmd
}

func categoryLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels <category>",
		Short: "List the labels allowed for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			labels := model.LabelsForCategory(args[0])
			if labels == nil {
				return common.NewUserError(fmt.Sprintf("unknown category %q; run 'spice categories' to see them", args[0]), model.ErrInvalidCategory)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), cli.RenderLabels(args[0], labels))
			return nil
		},
	}
}
