package commands

import (
	"benchtools/lib/benchstore"
	"benchtools/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	historyDb    *string
	historyLimit *int
	historyItem  *string
)

func init() {
	historyDb = historyCmd.Flags().String("db", "pricebench.db", "The sqlite database runs were recorded into.")
	historyLimit = historyCmd.Flags().Int("limit", 10, "How many recent runs to show.")
	historyItem = historyCmd.Flags().String("item", "", "Show every recorded price for this item instead of recent runs.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--db <path>] [--limit <n>] [--item <newegg-item-number>]",
	Short: "Shows recently recorded benchmark runs.",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := benchstore.Open(*historyDb)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer store.Close()

		if *historyItem != "" {
			points, err := store.History(cmd.Context(), *historyItem)
			if err != nil {
				serviceutil.Fatal("failed to read price history", err)
			}
			renderPricePoints(points)
			return
		}

		runs, err := store.Recent(cmd.Context(), *historyLimit)
		if err != nil {
			serviceutil.Fatal("failed to read runs", err)
		}
		renderRuns(runs)
	},
}
