// Package benchmark runs a price comparison across retail sites and
// aggregates the per-site results into one report.
package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"benchtools/lib/retail"
	"benchtools/lib/textutil"

	"github.com/antzucaro/matchr"
	"github.com/mazen160/go-random"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("benchmark")

// ProductFetcher looks a product up by the retailer's own id.
type ProductFetcher interface {
	Fetch(ctx context.Context, itemNumber string) (retail.PriceResult, error)
}

// Searcher finds the best-matching product for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) (retail.PriceResult, error)
}

// Sites are the scraper clients a run fans out to. Third is either the ebay
// or the bestbuy client depending on the caller's choice.
type Sites struct {
	Newegg ProductFetcher
	Amazon Searcher
	Third  Searcher
	// site name of Third, for the report metadata
	ThirdSite string
}

type Options struct {
	ItemNumber string
	// overrides the query scraped from the product title
	Query string
	// waits 1-2s between sites to stay under rate limits; tests leave
	// this off
	Jitter bool
}

type Input struct {
	NeweggItem  string `json:"newegg_item"`
	SearchQuery string `json:"search_query"`
}

type Summary struct {
	TotalSites      int              `json:"total_sites"`
	SuccessfulSites int              `json:"successful_sites"`
	SitesWithPrices []string         `json:"sites_with_prices"`
	Lowest          *decimal.Decimal `json:"lowest_price"`
	Highest         *decimal.Decimal `json:"highest_price"`
	Average         *decimal.Decimal `json:"average_price"`
	// highest minus lowest, needs at least two prices
	Spread *decimal.Decimal `json:"price_spread"`
}

type Metadata struct {
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
	QueryUsed string        `json:"query_used"`
	ThirdSite string        `json:"third_site"`
}

type Report struct {
	Input    Input                `json:"input"`
	Results  []retail.PriceResult `json:"results"`
	Summary  Summary              `json:"summary"`
	Metadata Metadata             `json:"metadata"`
}

// Run executes one benchmark: newegg by item number, then amazon and the
// third site by search query. Per-site failures are logged and folded into
// the report as statuses, they never abort the run.
func Run(ctx context.Context, sites Sites, opts Options) (Report, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	start := time.Now()

	neweggResult, err := sites.Newegg.Fetch(ctx, opts.ItemNumber)
	if err != nil {
		slog.WarnContext(ctx, "newegg fetch failed", "err", err)
	}
	logResult(ctx, neweggResult)

	query := buildQuery(opts, neweggResult.Title)
	slog.InfoContext(ctx, "searching other sites", "query", query)

	jitter(opts.Jitter)
	amazonResult, err := sites.Amazon.Search(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "amazon search failed", "err", err)
	}
	logResult(ctx, amazonResult)

	jitter(opts.Jitter)
	thirdResult, err := sites.Third.Search(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "search failed", "site", sites.ThirdSite, "err", err)
	}
	logResult(ctx, thirdResult)

	results := []retail.PriceResult{neweggResult, amazonResult, thirdResult}
	for i := range results {
		results[i].Relevance = relevance(query, results[i].Title)
	}

	return Report{
		Input: Input{
			NeweggItem:  opts.ItemNumber,
			SearchQuery: query,
		},
		Results: results,
		Summary: summarize(results),
		Metadata: Metadata{
			Duration:  time.Since(start),
			Timestamp: start,
			QueryUsed: query,
			ThirdSite: sites.ThirdSite,
		},
	}, ctx.Err()
}

func buildQuery(opts Options, scrapedTitle string) string {
	switch {
	case opts.Query != "":
		return textutil.CollapseWhitespace(opts.Query)
	case scrapedTitle != "":
		return textutil.CollapseWhitespace(scrapedTitle)
	default:
		return fmt.Sprintf("product %s", opts.ItemNumber)
	}
}

func summarize(results []retail.PriceResult) Summary {
	summary := Summary{TotalSites: len(results)}

	var prices []decimal.Decimal
	for _, r := range results {
		if r.Price == nil {
			continue
		}
		prices = append(prices, *r.Price)
		summary.SitesWithPrices = append(summary.SitesWithPrices, r.Site)
	}
	summary.SuccessfulSites = len(prices)
	if len(prices) == 0 {
		return summary
	}

	lowest, highest := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p.LessThan(lowest) {
			lowest = p
		}
		if p.GreaterThan(highest) {
			highest = p
		}
	}
	average := decimal.Avg(prices[0], prices[1:]...).Round(2)

	summary.Lowest = &lowest
	summary.Highest = &highest
	summary.Average = &average
	if len(prices) >= 2 {
		spread := highest.Sub(lowest)
		summary.Spread = &spread
	}
	return summary
}

func relevance(query, title string) float64 {
	if title == "" {
		return 0
	}
	return matchr.JaroWinkler(
		textutil.NormalizeName(query),
		textutil.NormalizeName(title),
		false,
	)
}

func jitter(enabled bool) {
	if !enabled {
		return
	}
	ms, err := random.IntRange(1000, 2000)
	if err != nil {
		ms = 1500
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func logResult(ctx context.Context, r retail.PriceResult) {
	if r.Price != nil {
		slog.InfoContext(ctx, "price found", "site", r.Site, "price", r.Price.String())
		return
	}
	slog.InfoContext(ctx, "no price", "site", r.Site, "status", r.Status)
}
