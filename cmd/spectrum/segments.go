package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shopspectrum/spectrum/internal/cli"
	"github.com/shopspectrum/spectrum/internal/common"
	"github.com/shopspectrum/spectrum/internal/config"
	"github.com/shopspectrum/spectrum/internal/model"
	"github.com/shopspectrum/spectrum/internal/segment"
)

func segmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Show the RFM table with external cluster labels",
		Long: `Segments binds an externally computed cluster assignment onto the
cached RFM table and summarizes the result. Customers absent from the
assignment artifact show as unlabeled; the clustering itself happens in
an offline job, not here.`,
		RunE: runSegments,
	}

	cmd.Flags().String("clusters", "", "cluster assignment CSV (CustomerID,Cluster)")
	cmd.Flags().Int("limit", 15, "number of customers to list")

	return cmd
}

func runSegments(cmd *cobra.Command, _ []string) error {
	clustersPath, _ := cmd.Flags().GetString("clusters")
	limit, _ := cmd.Flags().GetInt("limit")
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.ListRFM(ctx)
	if err != nil {
		return fmt.Errorf("failed to load RFM table: %w", err)
	}
	if len(records) == 0 {
		return common.NewUserError(
			"no RFM table cached; run 'spectrum rfm' first",
			common.ErrArtifactMissing)
	}

	if clustersPath != "" {
		assignments, err := segment.LoadAssignments(config.ExpandPath(clustersPath))
		if err != nil {
			return err
		}
		records = segment.Apply(records, assignments)
	}

	fmt.Println(cli.FormatTitle("Customer segments"))

	// Cluster population summary.
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.Cluster]++
	}
	clusters := make([]int, 0, len(counts))
	for c := range counts {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)

	summary := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		label := strconv.Itoa(c)
		if c == model.ClusterUnlabeled {
			label = "unlabeled"
		}
		summary = append(summary, []string{label, strconv.Itoa(counts[c])})
	}
	fmt.Println(cli.RenderTable([]string{"Cluster", "Customers"}, summary))

	rows := make([][]string, 0, limit)
	for i, r := range records {
		if i >= limit {
			break
		}
		label := strconv.Itoa(r.Cluster)
		if !r.Labeled() {
			label = "-"
		}
		rows = append(rows, []string{
			r.CustomerID,
			strconv.Itoa(r.RecencyDays),
			strconv.Itoa(r.Frequency),
			formatMoney(r.Monetary),
			label,
		})
	}
	fmt.Println(cli.RenderTable(
		[]string{"Customer", "Recency (days)", "Frequency", "Monetary", "Cluster"},
		rows))

	if len(records) > limit {
		fmt.Println(cli.SubtleStyle.Render(
			fmt.Sprintf("... and %d more customers", len(records)-limit)))
	}
	return nil
}
