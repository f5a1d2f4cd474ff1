package commands

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"benchtools/lib/benchmark"
	"benchtools/lib/benchstore"
	"benchtools/lib/restyutil"
	"benchtools/lib/scrapers/amazon"
	"benchtools/lib/scrapers/bestbuy"
	"benchtools/lib/scrapers/ebay"
	"benchtools/lib/scrapers/newegg"
	"benchtools/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	runQuery   *string
	useBestbuy *bool
	output     *string
	runDb      *string
	debugHttp  *bool
)

func init() {
	runQuery = runCmd.Flags().String("query", "", "Search query for the other sites instead of the scraped product title.")
	useBestbuy = runCmd.Flags().Bool("bestbuy", false, "Search Best Buy instead of eBay.")
	output = runCmd.Flags().String("output", "pretty", "Output format: pretty or json.")
	runDb = runCmd.Flags().String("db", "", "Also record the run into this sqlite database.")
	debugHttp = runCmd.Flags().Bool("debug-http", false, "Dump every request/response under .dev/resty/<site>.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <newegg-item-number>",
	Short: "Fetches an item from Newegg and compares its price on Amazon plus eBay or Best Buy.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sites, err := liveSites(*useBestbuy, *debugHttp)
		if err != nil {
			serviceutil.Fatal("failed to initialize scrapers", err)
		}

		report, err := benchmark.Run(cmd.Context(), sites, benchmark.Options{
			ItemNumber: args[0],
			Query:      *runQuery,
			Jitter:     true,
		})
		if err != nil {
			serviceutil.Fatal("benchmark aborted", err)
		}

		if *runDb != "" {
			store, err := benchstore.Open(*runDb)
			if err != nil {
				serviceutil.Fatal("failed to open database", err)
			}
			defer store.Close()

			runId, err := store.Save(cmd.Context(), report)
			if err != nil {
				serviceutil.Fatal("failed to save run", err)
			}
			slog.Info("run recorded", "id", runId, "db", *runDb)
		}

		switch *output {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				serviceutil.Fatal("failed to encode report", err)
			}
		default:
			renderReport(report)
		}
	},
}

func dumpFor(site string, enabled bool) (*restyutil.FilesystemOutput, error) {
	if !enabled {
		return nil, nil
	}
	out, err := restyutil.NewFilesystemOutput(filepath.Join(".dev", "resty", site))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func liveSites(bestBuy, debugHttp bool) (benchmark.Sites, error) {
	neweggDump, err := dumpFor(newegg.Site, debugHttp)
	if err != nil {
		return benchmark.Sites{}, err
	}
	neweggClient, err := newegg.NewClient(newegg.ClientOptions{Stealth: true, Dump: neweggDump})
	if err != nil {
		return benchmark.Sites{}, err
	}

	amazonDump, err := dumpFor(amazon.Site, debugHttp)
	if err != nil {
		return benchmark.Sites{}, err
	}
	amazonClient, err := amazon.NewClient(amazon.ClientOptions{Stealth: true, Dump: amazonDump})
	if err != nil {
		return benchmark.Sites{}, err
	}

	sites := benchmark.Sites{
		Newegg: neweggClient,
		Amazon: amazonClient,
	}
	if bestBuy {
		dump, err := dumpFor(bestbuy.Site, debugHttp)
		if err != nil {
			return benchmark.Sites{}, err
		}
		client, err := bestbuy.NewClient(bestbuy.ClientOptions{Stealth: true, Dump: dump})
		if err != nil {
			return benchmark.Sites{}, err
		}
		sites.Third = client
		sites.ThirdSite = bestbuy.Site
	} else {
		dump, err := dumpFor(ebay.Site, debugHttp)
		if err != nil {
			return benchmark.Sites{}, err
		}
		client, err := ebay.NewClient(ebay.ClientOptions{Stealth: true, Dump: dump})
		if err != nil {
			return benchmark.Sites{}, err
		}
		sites.Third = client
		sites.ThirdSite = ebay.Site
	}
	return sites, nil
}
