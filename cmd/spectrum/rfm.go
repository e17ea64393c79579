package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopspectrum/spectrum/internal/cli"
	"github.com/shopspectrum/spectrum/internal/config"
	"github.com/shopspectrum/spectrum/internal/features"
	"github.com/shopspectrum/spectrum/internal/model"
	"github.com/shopspectrum/spectrum/internal/segment"
)

func rfmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rfm",
		Short: "Derive per-customer Recency/Frequency/Monetary features",
		Long: `RFM groups the canonical table by customer and derives Recency (days
since last purchase at the observation instant), Frequency (distinct
invoices), and Monetary (total spend).

The observation instant defaults to one day after the latest invoice in
the table, so a rerun over the same data always produces the same
features. Pass --as-of to pin it explicitly.`,
		RunE: runRFM,
	}

	cmd.Flags().String("as-of", "", "observation instant, YYYY-MM-DD")
	cmd.Flags().StringP("out", "o", "", "write the RFM table to this CSV")
	cmd.Flags().String("clusters", "", "cluster assignment CSV to bind before writing")

	return cmd
}

func runRFM(cmd *cobra.Command, _ []string) error {
	asOfFlag, _ := cmd.Flags().GetString("as-of")
	outPath, _ := cmd.Flags().GetString("out")
	clustersPath, _ := cmd.Flags().GetString("clusters")
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := loadTransactions(ctx, store)
	if err != nil {
		return err
	}

	asOf, err := resolveAsOf(asOfFlag, txns)
	if err != nil {
		return err
	}
	slog.Info("Computing RFM features", "as_of", asOf.Format("2006-01-02"))

	records, err := features.ComputeRFM(txns, asOf)
	if err != nil {
		return err
	}

	if clustersPath != "" {
		assignments, err := segment.LoadAssignments(config.ExpandPath(clustersPath))
		if err != nil {
			return err
		}
		records = segment.Apply(records, assignments)
	}

	if err := store.ReplaceRFM(ctx, records); err != nil {
		return fmt.Errorf("failed to cache RFM table: %w", err)
	}

	if outPath != "" {
		outPath = config.ExpandPath(outPath)
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer func() { _ = f.Close() }()
		if err := features.WriteRFM(f, records); err != nil {
			return err
		}
		slog.Info("Wrote RFM artifact", "path", outPath)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"RFM table ready: %d customers (as of %s)", len(records), asOf.Format("2006-01-02"))))
	return nil
}

// resolveAsOf pins the observation instant. When the flag is absent it is
// derived from the data (midnight after the latest invoice), never from the
// wall clock, so reruns are reproducible.
func resolveAsOf(flag string, txns []model.Transaction) (time.Time, error) {
	if flag != "" {
		asOf, err := time.Parse("2006-01-02", flag)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --as-of %q, expected YYYY-MM-DD", flag)
		}
		return asOf, nil
	}

	var latest time.Time
	for i := range txns {
		if txns[i].InvoiceDate.After(latest) {
			latest = txns[i].InvoiceDate
		}
	}
	return time.Date(latest.Year(), latest.Month(), latest.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1), nil
}
