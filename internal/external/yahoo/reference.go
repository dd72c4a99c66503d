package yahoo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/redis"
)

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData *struct {
				TargetMeanPrice   *rawValue `json:"targetMeanPrice"`
				RecommendationKey string    `json:"recommendationKey"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchReference returns analyst consensus (cached for redis.TTLMedium)
func (c *Client) FetchReference(ctx context.Context, ticker string) (*contracts.ReferenceData, error) {
	if c.cache == nil {
		return c.fetchReference(ctx, ticker)
	}

	var ref contracts.ReferenceData
	err := c.cache.GetOrSet(ctx, redis.ReferenceKey(ticker), &ref, redis.TTLMedium, func() (interface{}, error) {
		return c.fetchReference(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (c *Client) fetchReference(ctx context.Context, ticker string) (*contracts.ReferenceData, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var result quoteSummaryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("ticker", ticker).
		SetQueryParam("modules", "financialData").
		SetResult(&result).
		SetError(&result).
		Get("/v10/finance/quoteSummary/{ticker}")
	if err != nil {
		return nil, fmt.Errorf("quoteSummary %s: %w", ticker, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("quoteSummary %s: %w", ticker, contracts.ErrNoData)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("quoteSummary %s: API error %d", ticker, resp.StatusCode())
	}

	qs := result.QuoteSummary
	if qs.Error != nil {
		return nil, fmt.Errorf("quoteSummary %s: %s", ticker, qs.Error.Description)
	}
	if len(qs.Result) == 0 || qs.Result[0].FinancialData == nil {
		return nil, fmt.Errorf("quoteSummary %s: %w", ticker, contracts.ErrNoData)
	}

	fd := qs.Result[0].FinancialData
	ref := &contracts.ReferenceData{RecommendationKey: fd.RecommendationKey}
	if fd.TargetMeanPrice != nil && fd.TargetMeanPrice.Raw != nil {
		v := *fd.TargetMeanPrice.Raw
		ref.TargetMeanPrice = &v
	}
	return ref, nil
}
