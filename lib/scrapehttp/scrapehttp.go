// Package scrapehttp builds the resty clients the retail scrapers share:
// browser-shaped headers, cookie jar, cloudflare bypass transport and
// tracing instrumentation.
package scrapehttp

import (
	"net/http/cookiejar"
	"time"

	"benchtools/lib/restyutil"
	"benchtools/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Options struct {
	BaseURL string
	// sent as the Referer header on every request
	Referer string
	// adds the cloudflare bypass transport and a rotating browser user
	// agent; the first rotation downloads a user agent corpus, so tests
	// leave this off
	Stealth bool
	Timeout time.Duration
	// names the tracer the client reports under, defaults to "scrapehttp"
	TracerName string
	// when set, every exchange is dumped to this output for debugging
	Dump *restyutil.FilesystemOutput
}

func NewClient(opts Options) (*resty.Client, error) {
	client := resty.New()
	client.SetBaseURL(opts.BaseURL)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)

	ua := defaultUserAgent
	if opts.Stealth {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
		ua = browser.Random()
	}
	client.SetHeaders(map[string]string{
		"user-agent":                ua,
		"accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"accept-language":           "en-US,en;q=0.9",
		"dnt":                       "1",
		"upgrade-insecure-requests": "1",
	})
	if opts.Referer != "" {
		client.SetHeader("referer", opts.Referer)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 10
	}
	client.SetTimeout(timeout)

	tracerName := opts.TracerName
	if tracerName == "" {
		tracerName = "scrapehttp"
	}
	telemetry.InstrumentResty(client, tracerName)
	if opts.Dump != nil {
		restyutil.InstrumentDump(client, *opts.Dump)
	}

	return client, nil
}
