// Package pricing extracts money amounts from scraped retail text.
package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyRunes = regexp.MustCompile(`[$€£¥₹,]`)
	numberRun     = regexp.MustCompile(`\d+\.?\d*`)
)

// Parse pulls the first number out of a price string like "$1,299.99" or
// "USD 59.49 each". Returns false when the text contains no number.
func Parse(text string) (decimal.Decimal, bool) {
	if text == "" {
		return decimal.Decimal{}, false
	}

	cleaned := strings.TrimSpace(currencyRunes.ReplaceAllString(text, ""))
	match := strings.TrimSuffix(numberRun.FindString(cleaned), ".")
	if match == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// IsRange reports whether the text quotes a price span ("$10 to $20",
// "$10 - $20") rather than a single price.
func IsRange(text string) bool {
	return strings.Contains(text, " to ") || strings.Contains(text, " - ")
}
