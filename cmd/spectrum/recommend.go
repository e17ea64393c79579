package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shopspectrum/spectrum/internal/cli"
	"github.com/shopspectrum/spectrum/internal/common"
	"github.com/shopspectrum/spectrum/internal/config"
	"github.com/shopspectrum/spectrum/internal/recommend"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <stock-code>",
		Short: "Show products similar to a given stock code",
		Long: `Recommend reads the precomputed product similarity matrix and returns
the products most similar to the given stock code, best match first.

Examples:
  spectrum recommend 85123A
  spectrum recommend 85123A -k 10 --matrix product_similarity_matrix.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runRecommend,
	}

	cmd.Flags().IntP("top", "k", 5, "number of recommendations")
	cmd.Flags().String("matrix", "", "similarity matrix CSV (default: <data-dir>/product_similarity_matrix.csv)")

	return cmd
}

func matrixPath(flag string) string {
	if flag != "" {
		return config.ExpandPath(flag)
	}
	if p := viper.GetString("artifacts.similarity"); p != "" {
		return config.ExpandPath(p)
	}
	return filepath.Join(dataDir(), "product_similarity_matrix.csv")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	k, _ := cmd.Flags().GetInt("top")
	matrixFlag, _ := cmd.Flags().GetString("matrix")
	ctx := cmd.Context()
	code := args[0]

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := loadTransactions(ctx, store)
	if err != nil {
		return err
	}

	matrix, err := recommend.LoadMatrix(matrixPath(matrixFlag))
	if err != nil {
		return err
	}

	engine, err := recommend.NewEngine(matrix, recommend.NewCatalog(txns))
	if err != nil {
		return err
	}

	recs, err := engine.Recommend(code, k)
	if err != nil {
		if errors.Is(err, common.ErrUnknownProduct) {
			return common.NewUserError(
				fmt.Sprintf("stock code %q is not in the similarity matrix", code), err)
		}
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf(
		"Customers interested in %s also liked:", engine.Describe(code))))

	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = []string{
			rec.StockCode,
			rec.Description,
			fmt.Sprintf("%.2f", rec.Score),
		}
	}
	fmt.Println(cli.RenderTable([]string{"Code", "Description", "Match"}, rows))

	return nil
}
