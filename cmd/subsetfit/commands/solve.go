package commands

import (
	"log/slog"
	"os"
	"time"

	"benchtools/lib/rowsolve"
	"benchtools/lib/serviceutil"
	"benchtools/lib/subsetsum"

	"github.com/spf13/cobra"
)

var (
	workers       *int
	maxCandidates *int
)

func init() {
	workers = solveCmd.Flags().Int("workers", 0, "Number of solver workers, 0 means the CPU count.")
	maxCandidates = solveCmd.Flags().Int(
		"max-candidates", subsetsum.MaxCandidates,
		"Reject rows with more candidates than this.",
	)
	rootCmd.AddCommand(solveCmd)
}

var solveCmd = &cobra.Command{
	Use:   "solve <input.csv>",
	Short: "Solves every row of a CSV: first column is the target, the rest are candidates.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input, err := os.Open(args[0])
		if err != nil {
			serviceutil.Fatal("failed to open input", err)
		}
		defer input.Close()

		t1 := time.Now()
		solved, err := rowsolve.Process(cmd.Context(), input, os.Stdout, os.Stderr, rowsolve.Options{
			Workers:       *workers,
			MaxCandidates: *maxCandidates,
		})
		if err != nil {
			serviceutil.Fatal("failed to process rows", err)
		}

		slog.Info("done", "rows", solved, "seconds", time.Since(t1).Seconds())
	},
}
