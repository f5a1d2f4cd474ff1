package commands

import (
	"fmt"
	"os"

	"benchtools/lib/benchmark"
	"benchtools/lib/benchstore"
	"benchtools/lib/retail"

	"github.com/jedib0t/go-pretty/v6/table"
)

func renderReport(report benchmark.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Site", "Status", "Price", "Title", "Relevance"})

	for _, r := range report.Results {
		t.AppendRow(table.Row{
			r.Site,
			r.Status,
			formatPrice(r),
			r.Title,
			fmt.Sprintf("%.2f", r.Relevance),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	s := report.Summary
	fmt.Printf("\nQuery: %s\n", report.Metadata.QueryUsed)
	fmt.Printf("Prices found: %d/%d\n", s.SuccessfulSites, s.TotalSites)
	if s.Lowest != nil {
		fmt.Printf("Lowest: $%s  Highest: $%s  Average: $%s\n", s.Lowest, s.Highest, s.Average)
	}
	if s.Spread != nil {
		fmt.Printf("Potential savings: $%s\n", s.Spread)
	}
	fmt.Printf("Took %.2fs\n", report.Metadata.Duration.Seconds())
}

func formatPrice(r retail.PriceResult) string {
	if r.Price == nil {
		return "-"
	}
	return fmt.Sprintf("$%s %s", r.Price, r.Currency)
}

func renderRuns(runs []benchstore.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Time", "Item", "Query", "Site", "Status", "Price"})

	for _, run := range runs {
		for i, r := range run.Results {
			timeCol, itemCol, queryCol := "", "", ""
			if i == 0 {
				timeCol = run.Time.Format("2006-01-02 15:04")
				itemCol = run.Item
				queryCol = run.Query
			}
			t.AppendRow(table.Row{timeCol, itemCol, queryCol, r.Site, r.Status, formatPrice(r)})
		}
		t.AppendSeparator()
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderPricePoints(points []benchstore.PricePoint) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Time", "Site", "Price"})

	for _, p := range points {
		t.AppendRow(table.Row{p.Time.Format("2006-01-02 15:04"), p.Site, "$" + p.Price.String()})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
