package benchstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"benchtools/lib/benchmark"
	"benchtools/lib/retail"
	"benchtools/lib/telemetry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testReport(item string, ts time.Time, prices map[string]string) benchmark.Report {
	var results []retail.PriceResult
	for _, site := range []string{"newegg", "amazon", "ebay"} {
		r := retail.New(site)
		if p, ok := prices[site]; ok {
			d, err := decimal.NewFromString(p)
			if err != nil {
				panic(err)
			}
			r = r.WithPrice(d)
		} else {
			r = r.WithStatus(retail.StatusNoPrice)
		}
		results = append(results, r)
	}
	return benchmark.Report{
		Input:   benchmark.Input{NeweggItem: item, SearchQuery: "query for " + item},
		Results: results,
		Metadata: benchmark.Metadata{
			Timestamp: ts,
			Duration:  time.Second * 3,
			ThirdSite: "ebay",
		},
	}
}

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:benchstore")
	defer cleanup()

	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	{
		runs, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 0)
	}

	_, err = store.Save(ctx, testReport("N1", base, map[string]string{
		"newegg": "89.99",
		"ebay":   "79.95",
	}))
	require.NoError(t, err)
	_, err = store.Save(ctx, testReport("N1", base.Add(time.Hour), map[string]string{
		"newegg": "84.99",
	}))
	require.NoError(t, err)
	_, err = store.Save(ctx, testReport("N2", base.Add(2*time.Hour), map[string]string{
		"amazon": "120",
	}))
	require.NoError(t, err)

	{
		runs, err := store.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		// newest first
		require.Equal(t, "N2", runs[0].Item)
		require.Equal(t, "N1", runs[1].Item)
		require.Len(t, runs[0].Results, 3)
		require.Equal(t, time.Second*3, runs[0].Duration)

		var amazon retail.PriceResult
		for _, r := range runs[0].Results {
			if r.Site == "amazon" {
				amazon = r
			}
		}
		require.NotNil(t, amazon.Price)
		require.True(t, amazon.Price.Equal(decimal.NewFromInt(120)))
		require.Equal(t, retail.StatusSuccess, amazon.Status)
	}

	{
		points, err := store.History(ctx, "N1")
		require.NoError(t, err)
		require.Len(t, points, 3)
		// oldest first
		require.Equal(t, "89.99", points[0].Price.String())
		require.Equal(t, "79.95", points[1].Price.String())
		require.Equal(t, "84.99", points[2].Price.String())
	}

	{
		points, err := store.History(ctx, "unknown")
		require.NoError(t, err)
		require.Len(t, points, 0)
	}
}

func TestOpenExistingDatabase(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:benchstore")
	defer cleanup()

	path := filepath.Join(t.TempDir(), "bench.db")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Save(ctx, testReport("N1", base, map[string]string{
		"newegg": "89.99",
	}))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// reopening applies the schema again, which must leave existing
	// tables, indexes and rows alone
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "N1", runs[0].Item)
}
