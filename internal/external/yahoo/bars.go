package yahoo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/sniper/internal/contracts"
)

// chartFunc downloads daily chart bars for one symbol in [start, end]
type chartFunc func(ctx context.Context, symbol string, start, end time.Time) ([]finance.ChartBar, error)

// financeChart reads the daily chart endpoint through finance-go
func financeChart(ctx context.Context, symbol string, start, end time.Time) ([]finance.ChartBar, error) {
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	bars := make([]finance.ChartBar, 0, 256)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars = append(bars, *iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

// FetchHistory downloads daily bars covering the last days calendar days
func (c *Client) FetchHistory(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return c.fetchBars(ctx, ticker, start, end)
}

// FetchDailyBars downloads the last days trading sessions for every ticker.
// ⭐ SSOT: 벌크 다운로드 (fan-out + join)
//
// Requests fan out with bounded concurrency and join into one map.
// Tickers without data are absent. The call fails only when every ticker failed.
func (c *Client) FetchDailyBars(ctx context.Context, tickers []string, days int) (map[string][]contracts.PriceBar, error) {
	end := time.Now()
	// weekends and holidays: request roughly twice the sessions in calendar days
	start := end.AddDate(0, 0, -(days*2 + 5))

	var (
		mu      sync.Mutex
		out     = make(map[string][]contracts.PriceBar, len(tickers))
		errs    []error
		noData  int
		g, gctx = errgroup.WithContext(ctx)
	)
	g.SetLimit(c.config.Concurrency)

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			bars, err := c.fetchBars(gctx, ticker, start, end)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, contracts.ErrNoData):
				noData++
			case err != nil:
				errs = append(errs, err)
			default:
				if len(bars) > days {
					bars = bars[len(bars)-days:]
				}
				out[ticker] = bars
			}
			// per-ticker failures never cancel siblings
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("bulk download of %d tickers failed: %w", len(tickers), errors.Join(errs...))
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(tickers),
		"with_data": len(out),
		"no_data":   noData,
		"failed":    len(errs),
	}).Debug("bulk bars downloaded")

	return out, nil
}

func (c *Client) fetchBars(ctx context.Context, ticker string, start, end time.Time) ([]contracts.PriceBar, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	raw, err := c.chart(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", ticker, err)
	}

	bars := convertBars(raw)
	if len(bars) == 0 {
		return nil, fmt.Errorf("chart %s: %w", ticker, contracts.ErrNoData)
	}
	return bars, nil
}

// convertBars maps chart bars to PriceBars in chronological order.
// A zero close marks a session Yahoo returned as null; its fields become NaN.
func convertBars(raw []finance.ChartBar) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, 0, len(raw))
	for _, b := range raw {
		bar := contracts.PriceBar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: float64(b.Volume),
		}
		if b.Close.IsZero() {
			nan := math.NaN()
			bar.Open, bar.High, bar.Low, bar.Close, bar.Volume = nan, nan, nan, nan, nan
		}
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars
}
