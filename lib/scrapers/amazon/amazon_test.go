package amazon

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"benchtools/lib/retail"

	"github.com/stretchr/testify/require"
)

const searchPage = `<!DOCTYPE html>
<html><body>
<div data-component-type="s-search-result">
	<h2><a href="/dp/B07MFZY2F2"><span>Samsung 970 EVO Plus 1TB</span></a></h2>
	<span class="a-price"><span class="a-offscreen">$89.99</span></span>
</div>
<div data-component-type="s-search-result">
	<h2><a href="/dp/other"><span>Other SSD</span></a></h2>
	<span class="a-price"><span class="a-offscreen">$120.00</span></span>
</div>
</body></html>`

func newTestClient(t *testing.T, handler http.Handler) Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	return client
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/s", r.URL.Path)
		// queries are trimmed to their first five words
		require.Equal(t, "Samsung 970 EVO Plus 1TB", r.URL.Query().Get("k"))
		fmt.Fprint(w, searchPage)
	}))

	res, err := client.Search(context.Background(), "Samsung 970 EVO Plus 1TB NVMe M.2 Internal SSD")
	require.NoError(t, err)
	require.Equal(t, retail.StatusSuccess, res.Status)
	require.Equal(t, "Samsung 970 EVO Plus 1TB", res.Title)
	require.NotNil(t, res.Price)
	require.Equal(t, "89.99", res.Price.String())
	require.Contains(t, res.URL, "/dp/B07MFZY2F2")
}

func TestSearchCaptcha(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// amazon serves its captcha page with a 503
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `<html><body>Enter the characters you see below</body></html>`)
	}))

	res, err := client.Search(context.Background(), "ssd")
	require.NoError(t, err)
	require.Equal(t, retail.StatusCaptcha, res.Status)
}

func TestSearchNoResults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>no results</body></html>`)
	}))

	res, err := client.Search(context.Background(), "ssd")
	require.NoError(t, err)
	require.Equal(t, retail.StatusNoResults, res.Status)
}

func TestSearchNoPrice(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<div data-component-type="s-search-result">
				<h2><span>Mystery Item</span></h2>
			</div>
		</body></html>`)
	}))

	res, err := client.Search(context.Background(), "ssd")
	require.NoError(t, err)
	require.Equal(t, retail.StatusNoPrice, res.Status)
	require.Equal(t, "Mystery Item", res.Title)
}

func TestSearchServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `<html><body>Service Unavailable</body></html>`)
	}))

	res, err := client.Search(context.Background(), "ssd")
	require.Error(t, err)
	require.Equal(t, retail.StatusError, res.Status)
}
