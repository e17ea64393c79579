package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shopspectrum/spectrum/internal/analytics"
	"github.com/shopspectrum/spectrum/internal/cli"
	"github.com/shopspectrum/spectrum/internal/common"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show business metrics over the canonical table",
		Long: `Report computes revenue, order count, average order value, distinct
customers, the monthly sales trend, and the best sellers, optionally
restricted to one country.

Examples:
  spectrum report
  spectrum report --country "United Kingdom" --top 5`,
		RunE: runReport,
	}

	cmd.Flags().String("country", analytics.AllCountries, "restrict the report to one country")
	cmd.Flags().Int("top", 10, "number of top sellers to list")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	country, _ := cmd.Flags().GetString("country")
	top, _ := cmd.Flags().GetInt("top")
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	dataset, err := loadDataset(ctx, store)
	if err != nil {
		return err
	}
	view := dataset.FilterCountry(country)

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Performance analysis: %s", country)))

	aovText := "n/a (no orders)"
	aov, err := view.AverageOrderValue()
	switch {
	case err == nil:
		aovText = formatMoney(aov)
	case errors.Is(err, common.ErrEmptyDataset):
		// Leave the n/a text; an empty filter is a valid query.
	default:
		return err
	}

	fmt.Println(cli.RenderMetricRow(
		cli.RenderMetric("Revenue", formatMoney(view.TotalRevenue())),
		cli.RenderMetric("Orders", strconv.Itoa(view.OrderCount())),
		cli.RenderMetric("Avg. Order", aovText),
		cli.RenderMetric("Customers", strconv.Itoa(view.DistinctCustomers())),
	))
	fmt.Println()

	trend := view.MonthlyTrend()
	if len(trend) > 0 {
		rows := make([][]string, len(trend))
		for i, p := range trend {
			rows[i] = []string{p.Month.Format("2006-01"), formatMoney(p.Total)}
		}
		fmt.Println(cli.TitleStyle.Render(cli.ChartIcon + " Sales trend"))
		fmt.Println(cli.RenderTable([]string{"Month", "Revenue"}, rows))
	}

	items := view.TopItems(top)
	if len(items) > 0 {
		rows := make([][]string, len(items))
		for i, it := range items {
			rows[i] = []string{it.StockCode, it.Description, strconv.Itoa(it.Quantity)}
		}
		fmt.Println(cli.TitleStyle.Render(cli.ChartIcon + " Top sellers"))
		fmt.Println(cli.RenderTable([]string{"Code", "Description", "Qty"}, rows))
	}

	if view.Len() == 0 {
		fmt.Println(cli.FormatWarning(
			fmt.Sprintf("no transactions for %q; metrics above reflect an empty view", country)))
	}
	return nil
}
