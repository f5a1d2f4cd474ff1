// Package amazon searches amazon.com and scrapes the first result's price.
package amazon

import (
	"bytes"
	"context"
	"fmt"
	"strings"

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

var tracer = otel.Tracer("scrapers/amazon")

const Site = "amazon"

// long queries return worse results, keep the head
const maxQueryWords = 5

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to https://www.amazon.com
	BaseUrl string
	Stealth bool
	// when set, every exchange is dumped for debugging
	Dump *restyutil.FilesystemOutput
}

func NewClient(opts ClientOptions) (Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://www.amazon.com"
	}
	http, err := scrapehttp.NewClient(scrapehttp.Options{
		BaseURL:    baseUrl,
		Referer:    baseUrl + "/",
		Stealth:    opts.Stealth,
		TracerName: "scrapers/amazon/http",
		Dump:       opts.Dump,
	})
	if err != nil {
		return Client{}, err
	}
	return Client{http: http}, nil
}

// price selectors in decreasing order of reliability
var priceSelectors = []string{
	".a-price .a-offscreen",
	".a-price-whole",
	".a-price span",
	`[class*="price"]`,
}

func (c Client) Search(ctx context.Context, query string) (retail.PriceResult, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()

	result := retail.New(Site)

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("k", textutil.FirstWords(query, maxQueryWords)).
		Get("/s")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch search page")
		return result.WithStatus(retail.StatusError), err
	}
	result.URL = res.Request.URL

	// captcha pages come back with a 503, so check for one first
	if strings.Contains(string(res.Body()), "Enter the characters") {
		return result.WithStatus(retail.StatusCaptcha), nil
	}
	if res.IsError() {
		return result.WithStatus(retail.StatusError),
			fmt.Errorf("unexpected status %d for query %q", res.StatusCode(), query)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		return result.WithStatus(retail.StatusError), err
	}

	product := doc.Find(`[data-component-type="s-search-result"]`).First()
	if product.Length() == 0 {
		return result.WithStatus(retail.StatusNoResults), nil
	}

	result.Title = htmlutil.SelectText(product, "h2 span")
	if href := product.Find("h2 a").AttrOr("href", ""); href != "" {
		result.URL = c.http.BaseURL + href
	}

	for _, selector := range priceSelectors {
		text := htmlutil.SelectText(product, selector)
		if text == "" {
			continue
		}
		if price, ok := pricing.Parse(text); ok {
			return result.WithPrice(price), nil
		}
	}
	return result.WithStatus(retail.StatusNoPrice), nil
}
