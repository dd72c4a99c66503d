package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/redis"
)

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// FetchNews returns up to limit recent headlines for a ticker, newest first
func (c *Client) FetchNews(ctx context.Context, ticker string, limit int) ([]contracts.Headline, error) {
	if limit <= 0 {
		return nil, nil
	}
	if c.cache == nil {
		return c.fetchNews(ctx, ticker, limit)
	}

	var headlines []contracts.Headline
	err := c.cache.GetOrSet(ctx, redis.HeadlinesKey(ticker, limit), &headlines, redis.TTLMedium, func() (interface{}, error) {
		return c.fetchNews(ctx, ticker, limit)
	})
	if err != nil {
		return nil, err
	}
	return headlines, nil
}

func (c *Client) fetchNews(ctx context.Context, ticker string, limit int) ([]contracts.Headline, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var result searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":           ticker,
			"quotesCount": "0",
			"newsCount":   strconv.Itoa(limit),
		}).
		SetResult(&result).
		Get("/v1/finance/search")
	if err != nil {
		return nil, fmt.Errorf("news %s: %w", ticker, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("news %s: API error %d", ticker, resp.StatusCode())
	}

	headlines := make([]contracts.Headline, 0, len(result.News))
	for _, n := range result.News {
		h := contracts.Headline{Title: n.Title, Publisher: n.Publisher}
		if n.ProviderPublishTime > 0 {
			h.PublishedAt = time.Unix(n.ProviderPublishTime, 0).UTC()
		}
		headlines = append(headlines, h)
		if len(headlines) == limit {
			break
		}
	}
	return headlines, nil
}
