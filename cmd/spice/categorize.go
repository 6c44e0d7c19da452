package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/cli"
	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/model"
)

const batchChunkSize = 250

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize [description]",
		Short: "Categorize a transaction description or a file of candidates",
		Long: `Categorize a single description, or a JSON file of candidate transactions
with --file. Learned corrections for --user are applied before the merchant
table and keyword groups.`,
		Example: `  spice categorize "SHELL GAS STATION #1234"
  spice categorize --user alice --file candidates.json --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCategorize,
	}

	cmd.Flags().StringP("file", "f", "", "JSON file of candidate transactions ('-' for stdin)")
	cmd.Flags().StringP("user", "u", "", "apply this user's learned corrections")
	cmd.Flags().String("amount", "0", "transaction amount (accepted, does not affect matching)")
	cmd.Flags().Bool("json", false, "print results as JSON")

	return cmd
}

func runCategorize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, _ := cmd.Flags().GetString("file")
	userID, _ := cmd.Flags().GetString("user")
	asJSON, _ := cmd.Flags().GetBool("json")

	if file == "" && len(args) == 0 {
		return common.NewUserError("provide a description or --file", nil)
	}

	_, store, engine, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()
	if err := engine.RefreshPatterns(ctx, false); err != nil && !asJSON {
		_, _ = fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Pattern refresh failed: %v", err)))
	}

	var learned []model.LearnedPattern
	if userID != "" {
		learned, err = store.GetLearnedPatterns(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load learned patterns: %w", err)
		}
	}

	if file != "" {
		return categorizeFile(cmd, engine, file, learned, asJSON)
	}

	amountStr, _ := cmd.Flags().GetString("amount")
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("invalid amount %q", amountStr), err)
	}

	result := engine.Categorize(args[0], amount, learned)
	if asJSON {
		return writeJSON(out, result)
	}
	_, _ = fmt.Fprintln(out, cli.RenderResult(args[0], result))
	return nil
}

func categorizeFile(cmd *cobra.Command, engine *categorize.Engine, path string, learned []model.LearnedPattern, asJSON bool) error {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("cannot open %s", path), err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	txns, err := readCandidates(r)
	if err != nil {
		return common.NewUserError("candidate file is not valid JSON", err)
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	bar := progressbar.NewOptions(len(txns),
		progressbar.OptionSetWriter(errOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Categorizing transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(errOut)
		}),
	)

	results := make([]model.ClassificationResult, 0, len(txns))
	for _, part := range chunk(txns, batchChunkSize) {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		results = append(results, engine.CategorizeBatch(part, learned)...)
		if err := bar.Add(len(part)); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	if asJSON {
		return writeJSON(out, results)
	}

	rows := make([]cli.ResultRow, len(results))
	uncategorised := 0
	for i, result := range results {
		rows[i] = cli.ResultRow{Description: txns[i].Description, Result: result}
		if result.IsUncategorised() {
			uncategorised++
		}
	}
	_, _ = fmt.Fprint(out, cli.RenderResults(rows))
	_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d categorized, %d uncategorised",
		len(results)-uncategorised, uncategorised)))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
