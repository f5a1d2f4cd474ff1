// Package ebay searches ebay.com Buy It Now listings.
package ebay

import (
	"bytes"
	"context"
	"fmt"

	"benchtools/lib/htmlutil"
	"benchtools/lib/pricing"
	"benchtools/lib/restyutil"
	"benchtools/lib/retail"
	"benchtools/lib/scrapehttp"
	"benchtools/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/ebay")

const Site = "ebay"

const maxQueryWords = 4

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to https://www.ebay.com
	BaseUrl string
	Stealth bool
	// when set, every exchange is dumped for debugging
	Dump *restyutil.FilesystemOutput
}

func NewClient(opts ClientOptions) (Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://www.ebay.com"
	}
	http, err := scrapehttp.NewClient(scrapehttp.Options{
		BaseURL:    baseUrl,
		Referer:    baseUrl + "/",
		Stealth:    opts.Stealth,
		TracerName: "scrapers/ebay/http",
		Dump:       opts.Dump,
	})
	if err != nil {
		return Client{}, err
	}
	return Client{http: http}, nil
}

func (c Client) Search(ctx context.Context, query string) (retail.PriceResult, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()

	result := retail.New(Site)

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"_nkw":   textutil.FirstWords(query, maxQueryWords),
			"LH_BIN": "1",  // buy it now only
			"_sop":   "15", // sort by price + shipping, lowest first
		}).
		Get("/sch/i.html")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch search page")
		return result.WithStatus(retail.StatusError), err
	}
	result.URL = res.Request.URL

	if res.IsError() {
		return result.WithStatus(retail.StatusError),
			fmt.Errorf("unexpected status %d for query %q", res.StatusCode(), query)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		return result.WithStatus(retail.StatusError), err
	}

	// the first .s-item is usually a promoted placeholder, use the second
	items := doc.Find(".s-item")
	if items.Length() < 2 {
		return result.WithStatus(retail.StatusNoResults), nil
	}
	product := items.Eq(1)

	result.Title = htmlutil.SelectText(product, ".s-item__title")
	if href := product.Find(".s-item__link").AttrOr("href", ""); href != "" {
		result.URL = href
	}

	priceText := htmlutil.SelectText(product, ".s-item__price")
	if priceText == "" || pricing.IsRange(priceText) {
		return result.WithStatus(retail.StatusNoPrice), nil
	}
	price, ok := pricing.Parse(priceText)
	if !ok {
		return result.WithStatus(retail.StatusNoPrice), nil
	}
	return result.WithPrice(price), nil
}
