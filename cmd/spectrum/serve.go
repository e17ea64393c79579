package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shopspectrum/spectrum/internal/analytics"
	"github.com/shopspectrum/spectrum/internal/api"
	"github.com/shopspectrum/spectrum/internal/config"
	"github.com/shopspectrum/spectrum/internal/features"
	"github.com/shopspectrum/spectrum/internal/model"
	"github.com/shopspectrum/spectrum/internal/recommend"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the metrics and recommendation API",
		Long: `Serve loads the cached canonical table, the RFM table, and the
similarity matrix, then exposes them over HTTP for the dashboard. All
state is loaded once at startup; a missing artifact aborts startup with
its identity rather than serving fabricated zeros.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080, config key server.addr)")
	cmd.Flags().String("matrix", "", "similarity matrix CSV (default: <data-dir>/product_similarity_matrix.csv)")
	cmd.Flags().String("rfm", "", "RFM artifact CSV to serve instead of the cached table")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	addrFlag, _ := cmd.Flags().GetString("addr")
	matrixFlag, _ := cmd.Flags().GetString("matrix")
	rfmFlag, _ := cmd.Flags().GetString("rfm")
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

	var rfm []model.RFMRecord
	if rfmFlag != "" {
		rfm, err = features.LoadRFM(config.ExpandPath(rfmFlag))
		if err != nil {
			return err
		}
	} else {
		rfm, err = store.ListRFM(ctx)
		if err != nil {
			return fmt.Errorf("failed to load RFM table: %w", err)
		}
		if len(rfm) == 0 {
			slog.Warn("No RFM table cached; /api/v1/segments will be empty until 'spectrum rfm' runs")
		}
	}

	matrix, err := recommend.LoadMatrix(matrixPath(matrixFlag))
	if err != nil {
		return err
	}

	engine, err := recommend.NewEngine(matrix, recommend.NewCatalog(txns))
	if err != nil {
		return err
	}

	dataset := analytics.NewDataset(txns)
	slog.Info("Loaded artifacts",
		"transactions", len(txns),
		"customers", len(rfm),
		"products", matrix.Size())

	addr := addrFlag
	if addr == "" {
		addr = viper.GetString("server.addr")
	}

	server := api.NewServer(dataset, rfm, engine)
	return server.ListenAndServe(ctx, addr)
}
