package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-categorizer/internal/cli"
	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/config"
	"github.com/Veraticus/spice-categorizer/internal/model"
	"github.com/Veraticus/spice-categorizer/internal/patternfeed"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patterns",
		Aliases: []string{"pattern"},
		Short:   "Manage merchant patterns and keywords",
		Long: `Manage the merchant table and keyword groups the engine matches descriptions
against. Edits are picked up on the next refresh; run 'spice patterns refresh'
against a running server's store to apply them immediately.`,
	}

	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsAddMerchantCmd())
	cmd.AddCommand(patternsAddKeywordCmd())
	cmd.AddCommand(patternsDeleteMerchantCmd())
	cmd.AddCommand(patternsDeleteKeywordCmd())
	cmd.AddCommand(patternsRefreshCmd())
	cmd.AddCommand(patternsInvalidateCmd())
	cmd.AddCommand(patternsSeedCmd())
	cmd.AddCommand(patternsTestCmd())

	return cmd
}

func patternsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List merchant patterns and keywords",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			merchants, err := store.ListMerchantPatterns(ctx)
			if err != nil {
				return err
			}
			keywords, err := store.ListKeywords(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(merchants) == 0 && len(keywords) == 0 {
				_, _ = fmt.Fprintln(out, cli.FormatInfo("No patterns found. Use 'spice patterns add-merchant' or 'add-keyword' to create one."))
				return nil
			}

			_, _ = fmt.Fprintln(out, cli.FormatTitle("Merchant patterns"))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tPATTERN\tALTERNATES\tCATEGORY\tLABEL")
			_, _ = fmt.Fprintln(w, "──\t───────\t──────────\t────────\t─────")
			for _, m := range merchants {
				alternates := strings.Join(m.AlternatePatterns, ", ")
				if alternates == "" {
					alternates = "-"
				}
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Pattern, alternates, m.Category, m.Label)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, cli.FormatTitle("Keywords"))
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tKEYWORD\tCATEGORY\tLABEL")
			_, _ = fmt.Fprintln(w, "──\t───────\t────────\t─────")
			for _, k := range keywords {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", k.ID, k.Keyword, k.Category, k.Label)
			}
			return w.Flush()
		},
	}
}

func patternsAddMerchantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add-merchant <pattern>",
		Short:   "Add a merchant pattern",
		Example: `  spice patterns add-merchant "WHOLE FOODS" --category Food --label Groceries --alt WHOLEFDS`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			category, _ := cmd.Flags().GetString("category")
			label, _ := cmd.Flags().GetString("label")
			alternates, _ := cmd.Flags().GetStringSlice("alt")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			m := &model.MerchantPattern{
				Pattern:           args[0],
				AlternatePatterns: alternates,
				Category:          category,
				Label:             label,
			}
			if err := store.CreateMerchantPattern(ctx, m); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(),
				cli.FormatSuccess(fmt.Sprintf("Added merchant %q → %s / %s (ID %d)", m.Pattern, m.Category, m.Label, m.ID)))
			return nil
		},
	}

	cmd.Flags().StringP("category", "c", "", "category (required)")
	cmd.Flags().StringP("label", "l", "", "label within the category (required)")
	cmd.Flags().StringSlice("alt", nil, "alternate spellings of the merchant")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

func patternsAddKeywordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add-keyword <keyword>",
		Short:   "Add a keyword to a category group",
		Example: `  spice patterns add-keyword RENT --category Housing --label Rent`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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

			k := &model.Keyword{Keyword: args[0], Category: category, Label: label}
			if err := store.CreateKeyword(ctx, k); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(),
				cli.FormatSuccess(fmt.Sprintf("Added keyword %q → %s / %s (ID %d)", k.Keyword, k.Category, k.Label, k.ID)))
			return nil
		},
	}

	cmd.Flags().StringP("category", "c", "", "category (required)")
	cmd.Flags().StringP("label", "l", "", "label within the category (required)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

func patternsDeleteMerchantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-merchant <id>",
		Short: "Delete a merchant pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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

			if err := store.DeleteMerchantPattern(ctx, id); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted merchant pattern %d", id)))
			return nil
		},
	}
}

func patternsDeleteKeywordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-keyword <id>",
		Short: "Delete a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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

			if err := store.DeleteKeyword(ctx, id); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted keyword %d", id)))
			return nil
		},
	}
}

func patternsRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the pattern tables from the configured source",
		Long: `Force a fetch from the configured pattern source (local store or HTTP feed)
and report what was loaded. Useful to check a feed after editing patterns.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, store, engine, err := setup(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := engine.RefreshPatterns(ctx, true); err != nil {
				return fmt.Errorf("refresh from %s source failed: %w", cfg.Patterns.Source, err)
			}

			snap := engine.Patterns()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Loaded %d merchant patterns and %d keyword groups from %s source",
				len(snap.Merchants), len(snap.KeywordGroups), cfg.Patterns.Source)))
			return nil
		},
	}
}

func patternsInvalidateCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop a running server's cached pattern tables",
		Long: `Ask a running 'spice serve' to drop its cached merchant and keyword tables so
the next categorize request refetches them instead of waiting out the TTL.
Defaults to the server address in the configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if serverURL == "" {
				cfg, err := config.Load()
				if err != nil {
					return common.NewUserError("invalid configuration", err)
				}
				serverURL = serverBaseURL(cfg.Server.Addr)
			}

			client, err := patternfeed.NewClient(patternfeed.InvalidateURL(serverURL))
			if err != nil {
				return err
			}
			if err := client.Invalidate(cmd.Context()); err != nil {
				return fmt.Errorf("invalidate at %s failed: %w", serverURL, err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Pattern cache dropped at %s", serverURL)))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Base URL of the running server (default from server.addr)")
	return cmd
}

func patternsSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the starter merchant patterns and keywords",
		Long:  `Load a starter merchant table and keyword groups. Existing entries are left alone.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			added, err := store.SeedDefaults(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %d default patterns", added)))
			return nil
		},
	}
}

func patternsTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <description>",
		Short: "Show which pattern a description matches, ignoring learned corrections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, store, engine, err := setup(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := engine.RefreshPatterns(ctx, true); err != nil {
				return err
			}

			result := engine.Categorize(args[0], decimal.Zero, nil)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderResult(args[0], result))
			return nil
		},
	}
}
