package commands

import (
	"fmt"
	"time"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/internal/data/repos"
	"github.com/wonny/sniper/internal/external/supabase"
	"github.com/wonny/sniper/internal/external/yahoo"
	"github.com/wonny/sniper/internal/metrics"
	"github.com/wonny/sniper/internal/s1_universe"
	"github.com/wonny/sniper/internal/s2_fastfilter"
	"github.com/wonny/sniper/internal/s3_scorer"
	"github.com/wonny/sniper/internal/s4_emitter"
	"github.com/wonny/sniper/internal/scanner"
	"github.com/wonny/sniper/pkg/config"
	"github.com/wonny/sniper/pkg/database"
	"github.com/wonny/sniper/pkg/httputil"
	"github.com/wonny/sniper/pkg/logger"
	"github.com/wonny/sniper/pkg/redis"
)

const upstreamTimeout = 30 * time.Second

// app holds the wired pipeline
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg *config.Config
	log *logger.Logger

	redis   *redis.Client
	cache   *redis.Cache
	limiter *redis.RateLimiter
	db      *database.DB // nil unless the postgres store is used

	store    contracts.SignalStore
	market   *yahoo.Client
	resolver *s1_universe.Resolver
	scorer   *s3_scorer.Scorer
	scanner  *scanner.Scanner
	metrics  *metrics.Recorder
}

// loadConfig loads config and applies global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp wires every component from config
func newApp(cfg *config.Config) (*app, error) {
	a := &app{
		cfg: cfg,
		log: logger.New(cfg),
	}

	// 1. Redis (optional)
	rc, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc
	a.cache = redis.NewCache(rc, redis.KeyPrefix)
	a.limiter = redis.NewRateLimiter(rc, redis.KeyPrefix)

	// 2. Signal store
	if err := a.openStore(); err != nil {
		a.Close()
		return nil, err
	}

	// 3. Metrics
	if cfg.MetricsEnabled {
		a.metrics = metrics.New()
	}

	// 4. Market data
	a.market = yahoo.NewClient(yahoo.Config{
		BaseURL:           cfg.MarketData.YahooQueryURL,
		RequestsPerSecond: cfg.MarketData.RequestsPerSecond,
		Concurrency:       cfg.Scanner.FetchConcurrency,
		UserAgent:         cfg.MarketData.UserAgent,
		Timeout:           upstreamTimeout,
	}, a.cache, a.log)
	if rc.Enabled() {
		a.market.WithRateLimiter(a.limiter, redis.YahooLimitFor(cfg.MarketData.RequestsPerSecond))
	}

	// 5. S1 Universe
	a.resolver = s1_universe.NewResolver(
		a.universeSource(s1_universe.NewNasdaqSource(a.httpClient(redis.NasdaqRateLimit).
			WithHeader("Origin", "https://www.nasdaq.com").
			WithHeader("Referer", "https://www.nasdaq.com/"), cfg.MarketData.NasdaqScreenerURL)),
		a.universeSource(s1_universe.NewSP500Source(a.httpClient(redis.WikipediaRateLimit), cfg.MarketData.SP500URL)),
		s1_universe.Config{FallbackOnEmpty: cfg.Scanner.FallbackOnEmpty},
		a.log.WithStage("universe"),
	)

	// 6. S2 Fast filter
	filter := s2_fastfilter.New(a.market, s2_fastfilter.Config{
		MinPrice:        cfg.Scanner.MinPrice,
		MinDollarVolume: cfg.Scanner.MinDollarVolume,
		Days:            cfg.Scanner.FastFilterDays,
	}, a.log.WithStage("fastfilter"))

	// 7. S3 Deep scorer
	a.scorer = s3_scorer.NewFromProvider(a.market, s3_scorer.Config{
		MinPrice:      cfg.Scanner.MinPrice,
		HistoryDays:   cfg.Scanner.HistoryDays,
		HeadlineCount: cfg.Scanner.HeadlineCount,
	}, a.log.WithStage("scorer"))

	// 8. S4 Emitter
	emitter := s4_emitter.New(a.store, cfg.Scanner.ScoreThreshold, a.log.WithStage("emitter"))

	// 9. Pipeline
	a.scanner = scanner.New(a.resolver, filter, a.scorer, emitter, a.metrics, scanner.Config{
		BatchSize:  cfg.Scanner.BatchSize,
		BatchDelay: cfg.Scanner.BatchDelay,
	}, a.log)

	return a, nil
}

// openStore connects the configured signal store
func (a *app) openStore() error {
	switch a.cfg.ResolvedStore() {
	case config.StorePostgres:
		db, err := database.New(a.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.store = repos.NewSignalRepository(db.Pool)
	case config.StoreSupabase:
		store, err := supabase.NewStore(supabase.Config{
			URL:     a.cfg.Supabase.URL,
			Key:     a.cfg.Supabase.Key,
			Table:   a.cfg.Supabase.Table,
			Timeout: upstreamTimeout,
		}, a.log)
		if err != nil {
			return fmt.Errorf("open supabase store: %w", err)
		}
		a.store = store
	default:
		return fmt.Errorf("unknown store backend %q", a.cfg.StoreBackend)
	}

	a.log.WithField("store", a.cfg.ResolvedStore()).Info("Signal store ready")
	return nil
}

// httpClient builds a paced client for one upstream
func (a *app) httpClient(limit redis.RateLimitConfig) *httputil.Client {
	client := httputil.NewWithTimeout(a.cfg, a.log, upstreamTimeout)
	if a.redis.Enabled() {
		return client.WithRateLimiter(a.limiter, limit)
	}
	return client.WithLocalLimit(float64(limit.Limit)/limit.Window.Seconds(), 1)
}

// universeSource adds the redis cache when enabled
func (a *app) universeSource(src contracts.UniverseSource) contracts.UniverseSource {
	if !a.redis.Enabled() || a.cfg.Scanner.UniverseCacheTTL <= 0 {
		return src
	}
	return s1_universe.NewCachedSource(src, a.cache, a.cfg.Scanner.UniverseCacheTTL, a.log)
}

// Close releases connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
}
