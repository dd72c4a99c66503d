package s1_universe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/sniper/pkg/httputil"
)

// ErrTableNotFound means the constituents table could not be located
var ErrTableNotFound = errors.New("constituents table not found")

// SP500Source lists S&P 500 constituents from the Wikipedia table (fallback)
type SP500Source struct {
	client *httputil.Client
	url    string
}

// NewSP500Source creates the fallback universe source
func NewSP500Source(client *httputil.Client, url string) *SP500Source {
	return &SP500Source{client: client, url: url}
}

// Name returns the source name
func (s *SP500Source) Name() string { return "sp500" }

// Fetch returns raw constituent symbols (uncleaned)
func (s *SP500Source) Fetch(ctx context.Context) ([]string, error) {
	body, err := s.client.GetBody(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("sp500 page: %w", err)
	}

	return parseConstituents(body)
}

// parseConstituents reads the "Symbol" column of the constituents table.
// Falls back to the first wikitable that has a Symbol header.
func parseConstituents(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tables := doc.Find("table#constituents")
	if tables.Length() == 0 {
		tables = doc.Find("table.wikitable")
	}

	var symbols []string
	found := false
	tables.EachWithBreak(func(_ int, table *goquery.Selection) bool {
		col := symbolColumn(table)
		if col < 0 {
			return true
		}
		found = true

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			cell := row.Find("td").Eq(col)
			if cell.Length() == 0 {
				return
			}
			if sym := strings.TrimSpace(cell.Text()); sym != "" {
				symbols = append(symbols, sym)
			}
		})
		return false
	})

	if !found {
		return nil, ErrTableNotFound
	}
	if len(symbols) == 0 {
		return nil, ErrNoRows
	}
	return symbols, nil
}

// symbolColumn returns the index of the "Symbol" header, or -1
func symbolColumn(table *goquery.Selection) int {
	col := -1
	table.Find("tr").First().Find("th").EachWithBreak(func(i int, th *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(th.Text()), "symbol") {
			col = i
			return false
		}
		return true
	})
	return col
}
