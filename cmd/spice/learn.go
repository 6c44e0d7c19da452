package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/cli"
	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/config"
)

func learnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Manage learned corrections",
		Long: `Learned corrections override the merchant table and keyword groups for one
user. Recording the same fragment again increases its confidence.`,
	}

	cmd.PersistentFlags().StringP("user", "u", "", "user the corrections belong to (required)")
	_ = cmd.MarkPersistentFlagRequired("user")

	cmd.AddCommand(learnRecordCmd())
	cmd.AddCommand(learnListCmd())
	cmd.AddCommand(learnDeleteCmd())

	return cmd
}

func learnRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "record <fragment>",
		Short:   "Record a correction for descriptions containing fragment",
		Example: `  spice learn record --user alice "PURE GYM" --category Personal --label "Gym membership"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			userID, _ := cmd.Flags().GetString("user")
			category, _ := cmd.Flags().GetString("category")
			label, _ := cmd.Flags().GetString("label")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			lp, err := store.RecordCorrection(ctx, userID, args[0], category, label)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Learned %q → %s / %s (corrected %d times, confidence %d)",
				lp.DescriptionPattern, lp.CorrectedCategory, lp.CorrectedLabel,
				lp.Frequency, categorize.LearnedConfidence(lp.Frequency))))
			return nil
		},
	}

	cmd.Flags().StringP("category", "c", "", "category (required)")
	cmd.Flags().StringP("label", "l", "", "label within the category (required)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

func learnListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List a user's learned corrections, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			userID, _ := cmd.Flags().GetString("user")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			patterns, err := store.GetLearnedPatterns(ctx, userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(patterns) == 0 {
				_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No learned corrections for %s", userID)))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tFRAGMENT\tCATEGORY\tLABEL\tTIMES\tUPDATED")
			_, _ = fmt.Fprintln(w, "──\t────────\t────────\t─────\t─────\t───────")
			for _, lp := range patterns {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
					lp.ID, lp.DescriptionPattern, lp.CorrectedCategory, lp.CorrectedLabel,
					lp.Frequency, lp.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func learnDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a learned correction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, _ := cmd.Flags().GetString("user")

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteLearnedPattern(ctx, userID, id); err != nil {
				return common.NewUserError(fmt.Sprintf("no learned correction %d for %s", id, userID), err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted learned correction %d", id)))
			return nil
		},
	}
}
