// Package benchstore keeps a sqlite history of benchmark runs so price
// movements per item can be compared across time.
package benchstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"benchtools/lib/benchmark"
	"benchtools/lib/benchstore/db"
	"benchtools/lib/retail"

	"github.com/shopspring/decimal"
)

type Store struct {
	db *sql.DB
}

// Open connects to the given sqlite path (or libsql URL) and creates the
// schema if it is missing.
func Open(path string) (Store, error) {
	driver := "sqlite"
	if strings.HasPrefix(path, "libsql://") {
		driver = "libsql"
	}
	database, err := sql.Open(driver, path)
	if err != nil {
		return Store{}, err
	}
	if _, err := database.Exec(db.Schema); err != nil {
		return Store{}, err
	}
	return Store{db: database}, nil
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

func (s Store) Close() error {
	return s.db.Close()
}

func (s Store) Save(ctx context.Context, report benchmark.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO runs (item, query, third_site, time, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		report.Input.NeweggItem,
		report.Input.SearchQuery,
		report.Metadata.ThirdSite,
		report.Metadata.Timestamp.Unix(),
		report.Metadata.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, err
	}
	runId, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, r := range report.Results {
		var price sql.NullString
		if r.Price != nil {
			price = sql.NullString{String: r.Price.String(), Valid: true}
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO results (run_id, site, price, currency, url, title, status, relevance)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runId, r.Site, price, r.Currency, r.URL, r.Title, string(r.Status), r.Relevance,
		)
		if err != nil {
			return 0, err
		}
	}
	return runId, tx.Commit()
}

type Run struct {
	Id        int64
	Item      string
	Query     string
	ThirdSite string
	Time      time.Time
	Duration  time.Duration
	Results   []retail.PriceResult
}

// Recent returns the latest n runs, newest first, with their results.
func (s Store) Recent(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, item, query, third_site, time, duration_ms
		 FROM runs ORDER BY time DESC, id DESC LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var unix, durationMs int64
		err := rows.Scan(&run.Id, &run.Item, &run.Query, &run.ThirdSite, &unix, &durationMs)
		if err != nil {
			return nil, err
		}
		run.Time = time.Unix(unix, 0)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		runs[i].Results, err = s.resultsForRun(ctx, runs[i].Id)
		if err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s Store) resultsForRun(ctx context.Context, runId int64) ([]retail.PriceResult, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT site, price, currency, url, title, status, relevance
		 FROM results WHERE run_id = ?`,
		runId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []retail.PriceResult
	for rows.Next() {
		var r retail.PriceResult
		var price sql.NullString
		var status string
		err := rows.Scan(&r.Site, &price, &r.Currency, &r.URL, &r.Title, &status, &r.Relevance)
		if err != nil {
			return nil, err
		}
		r.Status = retail.Status(status)
		if price.Valid {
			d, err := decimal.NewFromString(price.String)
			if err != nil {
				return nil, err
			}
			r.Price = &d
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

type PricePoint struct {
	Site  string
	Time  time.Time
	Price decimal.Decimal
}

// History returns every price ever recorded for an item, oldest first.
func (s Store) History(ctx context.Context, item string) ([]PricePoint, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT results.site, runs.time, results.price
		 FROM results JOIN runs ON runs.id = results.run_id
		 WHERE runs.item = ? AND results.price IS NOT NULL
		 ORDER BY runs.time ASC, runs.id ASC, results.rowid ASC`,
		item,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []PricePoint
	for rows.Next() {
		var p PricePoint
		var unix int64
		var price string
		if err := rows.Scan(&p.Site, &unix, &price); err != nil {
			return nil, err
		}
		p.Time = time.Unix(unix, 0)
		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
