package ebay

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
<div class="s-item">
	<div class="s-item__title">Shop on eBay</div>
</div>
<div class="s-item">
	<a class="s-item__link" href="https://www.ebay.com/itm/12345"></a>
	<div class="s-item__title">Samsung 970 EVO Plus 1TB</div>
	<span class="s-item__price">$79.95</span>
</div>
</body></html>`

const rangePage = `<!DOCTYPE html>
<html><body>
<div class="s-item"><div class="s-item__title">ad</div></div>
<div class="s-item">
	<div class="s-item__title">SSD lot</div>
	<span class="s-item__price">$10.00 to $45.00</span>
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
		require.Equal(t, "/sch/i.html", r.URL.Path)
		require.Equal(t, "Samsung 970 EVO Plus", r.URL.Query().Get("_nkw"))
		require.Equal(t, "1", r.URL.Query().Get("LH_BIN"))
		fmt.Fprint(w, searchPage)
	}))

	res, err := client.Search(context.Background(), "Samsung 970 EVO Plus 1TB SSD")
	require.NoError(t, err)
	require.Equal(t, retail.StatusSuccess, res.Status)
	require.Equal(t, "Samsung 970 EVO Plus 1TB", res.Title)
	require.NotNil(t, res.Price)
	require.Equal(t, "79.95", res.Price.String())
	require.Equal(t, "https://www.ebay.com/itm/12345", res.URL)
}

func TestSearchSkipsPriceRanges(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rangePage)
	}))

	res, err := client.Search(context.Background(), "ssd")
	require.NoError(t, err)
	require.Equal(t, retail.StatusNoPrice, res.Status)
}

func TestSearchNoResults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="s-item">only the ad</div></body></html>`)
	}))

	res, err := client.Search(context.Background(), "ssd")
	require.NoError(t, err)
	require.Equal(t, retail.StatusNoResults, res.Status)
}

func TestSearchServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `<html><body>something went wrong</body></html>`)
	}))

	res, err := client.Search(context.Background(), "ssd")
	require.Error(t, err)
	require.Equal(t, retail.StatusError, res.Status)
}
