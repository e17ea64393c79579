package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/shopspectrum/spectrum/internal/analytics"
	"github.com/shopspectrum/spectrum/internal/common"
	"github.com/shopspectrum/spectrum/internal/config"
	"github.com/shopspectrum/spectrum/internal/model"
	"github.com/shopspectrum/spectrum/internal/service"
	"github.com/shopspectrum/spectrum/internal/storage"
)

func dataDir() string {
	return config.ExpandPath(viper.GetString("data.dir"))
}

func dbPath() string {
	return filepath.Join(dataDir(), "spectrum.db")
}

// openStore opens the artifact cache and brings its schema up to date.
func openStore(ctx context.Context) (service.Store, error) {
	store, err := storage.NewSQLiteStore(dbPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact cache: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate artifact cache: %w", err)
	}
	return store, nil
}

// loadTransactions loads the cached canonical table, failing with a
// user-facing hint when no pipeline run has happened yet.
func loadTransactions(ctx context.Context, store service.Store) ([]model.Transaction, error) {
	txns, err := store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load canonical table: %w", err)
	}
	if len(txns) == 0 {
		return nil, common.NewUserError(
			"no canonical transaction table cached; run 'spectrum clean <raw.csv>' first",
			common.ErrArtifactMissing)
	}
	return txns, nil
}

// loadDataset wraps the cached canonical table in a query view.
func loadDataset(ctx context.Context, store service.Store) (*analytics.Dataset, error) {
	txns, err := loadTransactions(ctx, store)
	if err != nil {
		return nil, err
	}
	return analytics.NewDataset(txns), nil
}

// formatMoney renders a currency amount with thousands separators.
func formatMoney(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	whole, frac := s[:len(s)-3], s[len(s)-3:]
	var out []byte
	for i, c := range []byte(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	if neg {
		return "-$" + string(out) + frac
	}
	return "$" + string(out) + frac
}
