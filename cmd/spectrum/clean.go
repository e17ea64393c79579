package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/shopspectrum/spectrum/internal/cli"
	"github.com/shopspectrum/spectrum/internal/common"
	"github.com/shopspectrum/spectrum/internal/config"
	"github.com/shopspectrum/spectrum/internal/pipeline"
)

func cleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <raw.csv[.gz]>",
		Short: "Clean a raw transaction export into the canonical table",
		Long: `Clean parses a raw retail transaction export, drops malformed rows,
exact duplicates, rows without a customer identifier, and cancellations
(non-positive quantity or price), then derives TotalPrice and caches the
canonical table for the other commands.

Examples:
  # Clean an export and cache the result
  spectrum clean ~/Downloads/online_retail.csv

  # Also write the canonical table as a CSV artifact
  spectrum clean online_retail.csv.gz --out cleaned_online_retail.csv.gz`,
		Args: cobra.ExactArgs(1),
		RunE: runClean,
	}

	cmd.Flags().StringP("out", "o", "", "write the canonical table to this CSV (.gz supported)")
	cmd.Flags().Bool("no-cache", false, "skip caching the canonical table")

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	ctx := cmd.Context()

	path := config.ExpandPath(args[0])
	info, err := os.Stat(path)
	if err != nil {
		return common.ArtifactError(common.ErrArtifactMissing, path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return common.ArtifactError(common.ErrArtifactMissing, path, err)
	}
	defer func() { _ = f.Close() }()

	bar := progressbar.DefaultBytes(info.Size(), "ingesting")
	var reader io.Reader = io.TeeReader(f, bar)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return common.ArtifactError(common.ErrArtifactMissing, path, err)
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}

	rows, err := pipeline.ReadRows(ctx, reader)
	if err != nil {
		return err
	}
	_ = bar.Finish()
	fmt.Println()

	txns, report := pipeline.Clean(rows)

	fmt.Println(cli.FormatTitle("Cleaning summary"))
	fmt.Println(cli.RenderTable(
		[]string{"Stage", "Rows"},
		[][]string{
			{"Read", strconv.Itoa(report.RowsRead)},
			{"Malformed", strconv.Itoa(report.Malformed)},
			{"Duplicates", strconv.Itoa(report.Duplicates)},
			{"Missing customer", strconv.Itoa(report.MissingCustomer)},
			{"Non-positive qty/price", strconv.Itoa(report.NonPositive)},
			{"Kept", strconv.Itoa(report.RowsKept)},
		},
	))

	if report.RowsKept == 0 {
		return common.NewUserError("no rows survived cleaning; check the input export", nil)
	}

	if !noCache {
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.ReplaceTransactions(ctx, txns); err != nil {
			return fmt.Errorf("failed to cache canonical table: %w", err)
		}
		slog.Info("Cached canonical table",
			"rows", report.RowsKept,
			"db", dbPath())
	}

	if outPath != "" {
		outPath = config.ExpandPath(outPath)
		if err := pipeline.WriteCanonicalFile(outPath, txns); err != nil {
			return err
		}
		slog.Info("Wrote canonical artifact", "path", outPath)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Canonical table ready: %d rows (%d dropped)", report.RowsKept, report.Dropped())))
	return nil
}
