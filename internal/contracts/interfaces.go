package contracts

import "context"

// UniverseSource supplies raw ticker symbols (S1)
// ⭐ SSOT: S1 유니버스 소스 인터페이스
type UniverseSource interface {
	Name() string
	Fetch(ctx context.Context) ([]string, error)
}

// BarProvider downloads recent daily bars for many tickers at once (S2)
// Tickers with no data are absent from the result map.
type BarProvider interface {
	FetchDailyBars(ctx context.Context, tickers []string, days int) (map[string][]PriceBar, error)
}

// HistoryProvider downloads long daily history for one ticker (S3)
type HistoryProvider interface {
	FetchHistory(ctx context.Context, ticker string, days int) ([]PriceBar, error)
}

// NewsProvider returns the most recent headlines for one ticker (S3)
type NewsProvider interface {
	FetchNews(ctx context.Context, ticker string, limit int) ([]Headline, error)
}

// ReferenceProvider returns analyst consensus for one ticker (S3)
type ReferenceProvider interface {
	FetchReference(ctx context.Context, ticker string) (*ReferenceData, error)
}

// MarketDataProvider is the full market data surface
type MarketDataProvider interface {
	BarProvider
	HistoryProvider
	NewsProvider
	ReferenceProvider
}

// SignalStore persists and queries signals
// ⭐ SSOT: Signal 저장소 인터페이스 (Postgres / Supabase)
type SignalStore interface {
	Insert(ctx context.Context, signal *Signal) error
	ListByStatus(ctx context.Context, q SignalQuery) ([]*Signal, error)
}
