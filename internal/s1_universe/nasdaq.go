package s1_universe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wonny/sniper/pkg/httputil"
)

// ErrNoRows means the screener answered without any symbol rows
var ErrNoRows = errors.New("screener returned no rows")

// NasdaqSource lists every US-listed stock from the NASDAQ screener API (primary)
type NasdaqSource struct {
	client *httputil.Client
	url    string
}

// NewNasdaqSource creates the primary universe source
func NewNasdaqSource(client *httputil.Client, url string) *NasdaqSource {
	return &NasdaqSource{client: client, url: url}
}

type screenerResponse struct {
	Data *struct {
		Rows []struct {
			Symbol string `json:"symbol"`
		} `json:"rows"`
	} `json:"data"`
}

// Name returns the source name
func (s *NasdaqSource) Name() string { return "nasdaq" }

// Fetch returns raw screener symbols (uncleaned)
func (s *NasdaqSource) Fetch(ctx context.Context) ([]string, error) {
	body, err := s.client.GetBody(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("nasdaq screener: %w", err)
	}

	return parseScreener(body)
}

func parseScreener(body []byte) ([]string, error) {
	var resp screenerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode screener: %w", err)
	}

	if resp.Data == nil || len(resp.Data.Rows) == 0 {
		return nil, ErrNoRows
	}

	symbols := make([]string, 0, len(resp.Data.Rows))
	for _, row := range resp.Data.Rows {
		symbols = append(symbols, row.Symbol)
	}
	return symbols, nil
}
