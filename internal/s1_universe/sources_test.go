package s1_universe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sniper/pkg/config"
	"github.com/wonny/sniper/pkg/httputil"
	"github.com/wonny/sniper/pkg/logger"
)

const screenerJSON = `{
  "data": {
    "headers": {"symbol": "Symbol", "name": "Name"},
    "rows": [
      {"symbol": "AAPL", "name": "Apple Inc."},
      {"symbol": "BRK.B", "name": "Berkshire Hathaway"},
      {"symbol": "MSFT", "name": "Microsoft"}
    ]
  },
  "status": {"rCode": 200}
}`

const sp500HTML = `<html><body>
<table class="wikitable sortable" id="constituents">
<tbody>
<tr><th>Symbol</th><th>Security</th><th>GICS Sector</th></tr>
<tr><td><a href="#">MMM</a></td><td>3M</td><td>Industrials</td></tr>
<tr><td><a href="#">BF.B</a></td><td>Brown-Forman</td><td>Consumer Staples</td></tr>
<tr><td><a href="#">AOS</a>
</td><td>A. O. Smith</td><td>Industrials</td></tr>
</tbody>
</table>
<table class="wikitable"><tbody><tr><th>Date</th><th>Added</th></tr></tbody></table>
</body></html>`

func newTestClient() *httputil.Client {
	return httputil.New(&config.Config{}, logger.Nop()).DisableRetry()
}

func serve(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestNasdaqSource_Fetch(t *testing.T) {
	srv := serve(http.StatusOK, screenerJSON)
	defer srv.Close()

	src := NewNasdaqSource(newTestClient(), srv.URL)
	assert.Equal(t, "nasdaq", src.Name())

	symbols, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "BRK.B", "MSFT"}, symbols)
}

func TestNasdaqSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		isRows bool
	}{
		{"http error", http.StatusForbidden, "", false},
		{"bad json", http.StatusOK, "<html>", false},
		{"null data", http.StatusOK, `{"data": null}`, true},
		{"no rows", http.StatusOK, `{"data": {"rows": []}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(tt.status, tt.body)
			defer srv.Close()

			_, err := NewNasdaqSource(newTestClient(), srv.URL).Fetch(context.Background())
			require.Error(t, err)
			if tt.isRows {
				assert.ErrorIs(t, err, ErrNoRows)
			}
		})
	}
}

func TestSP500Source_Fetch(t *testing.T) {
	srv := serve(http.StatusOK, sp500HTML)
	defer srv.Close()

	src := NewSP500Source(newTestClient(), srv.URL)
	assert.Equal(t, "sp500", src.Name())

	symbols, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"MMM", "BF.B", "AOS"}, symbols)
}

func TestSP500Source_WikitableWithoutID(t *testing.T) {
	html := `<table class="wikitable"><tbody>
<tr><th>Security</th><th>Symbol</th></tr>
<tr><td>Apple</td><td>AAPL</td></tr>
</tbody></table>`
	srv := serve(http.StatusOK, html)
	defer srv.Close()

	symbols, err := NewSP500Source(newTestClient(), srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, symbols)
}

func TestSP500Source_NoTable(t *testing.T) {
	srv := serve(http.StatusOK, `<html><body><p>changed layout</p></body></html>`)
	defer srv.Close()

	_, err := NewSP500Source(newTestClient(), srv.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrTableNotFound)
}
