// Package retail holds the result model shared by the per-site price
// scrapers and the benchmark aggregator.
package retail

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSuccess   Status = "success"
	StatusNoPrice   Status = "no_price"
	StatusNoResults Status = "no_results"
	StatusError     Status = "error"
	StatusBlocked   Status = "blocked"
	StatusCaptcha   Status = "captcha"
)

// PriceResult is what one site contributes to a benchmark run. Price is nil
// whenever Status != StatusSuccess.
type PriceResult struct {
	Site      string           `json:"site"`
	Price     *decimal.Decimal `json:"price"`
	Currency  string           `json:"currency"`
	URL       string           `json:"url,omitempty"`
	Title     string           `json:"title,omitempty"`
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	// how close the scraped title is to the search query, 0..1, filled
	// in by the benchmark aggregator
	Relevance float64 `json:"relevance,omitempty"`
}

// New returns a pending result stamped with the current time.
func New(site string) PriceResult {
	return PriceResult{
		Site:      site,
		Currency:  "USD",
		Status:    StatusPending,
		Timestamp: time.Now(),
	}
}

func (r PriceResult) WithPrice(p decimal.Decimal) PriceResult {
	r.Price = &p
	r.Status = StatusSuccess
	return r
}

func (r PriceResult) WithTitle(title string) PriceResult {
	r.Title = title
	return r
}

func (r PriceResult) WithStatus(s Status) PriceResult {
	r.Status = s
	return r
}
