// Package bestbuy searches bestbuy.com and scrapes the first result's price.
package bestbuy

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

var tracer = otel.Tracer("scrapers/bestbuy")

const Site = "bestbuy"

const maxQueryWords = 4

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to https://www.bestbuy.com
	BaseUrl string
	Stealth bool
	// when set, every exchange is dumped for debugging
	Dump *restyutil.FilesystemOutput
}

func NewClient(opts ClientOptions) (Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://www.bestbuy.com"
	}
	http, err := scrapehttp.NewClient(scrapehttp.Options{
		BaseURL:    baseUrl,
		Referer:    baseUrl + "/",
		Stealth:    opts.Stealth,
		TracerName: "scrapers/bestbuy/http",
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
		SetQueryParam("st", textutil.FirstWords(query, maxQueryWords)).
		Get("/site/searchpage.jsp")
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

	product := doc.Find(".sku-item").First()
	if product.Length() == 0 {
		return result.WithStatus(retail.StatusNoResults), nil
	}

	link := product.Find(".sku-title a").First()
	result.Title = strings.TrimSpace(link.Text())
	if href := link.AttrOr("href", ""); href != "" {
		if strings.HasPrefix(href, "/") {
			href = c.http.BaseURL + href
		}
		result.URL = href
	}

	priceText := htmlutil.SelectText(product, ".priceView-customer-price span")
	if price, ok := pricing.Parse(priceText); ok {
		return result.WithPrice(price), nil
	}
	return result.WithStatus(retail.StatusNoPrice), nil
}
