// Package newegg fetches product listings from newegg.com by item number.
package newegg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"benchtools/lib/htmlutil"
	"benchtools/lib/pricing"
	"benchtools/lib/restyutil"
	"benchtools/lib/retail"
	"benchtools/lib/scrapehttp"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/newegg")

const Site = "newegg"

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to https://www.newegg.com
	BaseUrl string
	Stealth bool
	// when set, every exchange is dumped for debugging
	Dump *restyutil.FilesystemOutput
}

func NewClient(opts ClientOptions) (Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://www.newegg.com"
	}
	http, err := scrapehttp.NewClient(scrapehttp.Options{
		BaseURL:    baseUrl,
		Referer:    baseUrl + "/",
		Stealth:    opts.Stealth,
		TracerName: "scrapers/newegg/http",
		Dump:       opts.Dump,
	})
	if err != nil {
		return Client{}, err
	}
	return Client{http: http}, nil
}

var titleSuffixRegex = regexp.MustCompile(`\s*-\s*Newegg\.com.*$`)

// Fetch loads the product page for an item number like "N82E16820147795".
// Transport failures return a result with status "error" alongside the
// error itself; everything else is reported through the result status.
func (c Client) Fetch(ctx context.Context, itemNumber string) (retail.PriceResult, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	result := retail.New(Site)

	res, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/p/%s", itemNumber))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch product page")
		return result.WithStatus(retail.StatusError), err
	}
	result.URL = res.Request.URL

	if res.StatusCode() == http.StatusForbidden {
		return result.WithStatus(retail.StatusBlocked), nil
	}
	if res.IsError() {
		return result.WithStatus(retail.StatusError),
			fmt.Errorf("unexpected status %d for item %s", res.StatusCode(), itemNumber)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		return result.WithStatus(retail.StatusError), err
	}

	if title := htmlutil.MetaContent(doc, "property", "og:title"); title != "" {
		result.Title = titleSuffixRegex.ReplaceAllString(title, "")
	}

	if price, ok := priceFromMeta(doc); ok {
		return result.WithPrice(price), nil
	}
	if price, ok := priceFromJsonLd(doc); ok {
		return result.WithPrice(price), nil
	}
	return result.WithStatus(retail.StatusNoPrice), nil
}

func priceFromMeta(doc *goquery.Document) (decimal.Decimal, bool) {
	content := htmlutil.MetaContent(doc, "itemprop", "price")
	if content == "" {
		return decimal.Decimal{}, false
	}
	return pricing.Parse(content)
}

// offers.price shows up both as a bare number and a quoted string in the
// wild, so it is decoded loosely
type jsonLdProduct struct {
	Type   string `json:"@type"`
	Offers struct {
		Price any `json:"price"`
	} `json:"offers"`
}

func priceFromJsonLd(doc *goquery.Document) (decimal.Decimal, bool) {
	var price decimal.Decimal
	found := false

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var product jsonLdProduct
		if err := json.Unmarshal([]byte(sel.Text()), &product); err != nil {
			return true
		}
		if product.Type != "Product" || product.Offers.Price == nil {
			return true
		}

		parsed, ok := pricing.Parse(fmt.Sprint(product.Offers.Price))
		if !ok {
			return true
		}
		price = parsed
		found = true
		return false
	})

	return price, found
}
