package yahoo

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/wonny/sniper/pkg/httputil"
	"github.com/wonny/sniper/pkg/logger"
	"github.com/wonny/sniper/pkg/redis"
)

// Config holds Yahoo Finance client settings
type Config struct {
	BaseURL           string  // query host for search/quoteSummary
	RequestsPerSecond float64 // per-process pacing of every request
	Concurrency       int     // parallel chart downloads in a bulk call
	UserAgent         string
	Timeout           time.Duration
}

// Client handles communication with Yahoo Finance
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	http    *resty.Client
	chart   chartFunc
	limiter *rate.Limiter
	shared  *redis.RateLimiter
	sharedC redis.RateLimitConfig
	cache   *redis.Cache
	config  Config
	logger  *logger.Logger
}

// NewClient creates a new Yahoo Finance client; cache may be nil
func NewClient(cfg Config, cache *redis.Cache, log *logger.Logger) *Client {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && httputil.IsRetryableError(r.StatusCode())
		})
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}

	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		http:    httpClient,
		chart:   financeChart,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		cache:   cache,
		config:  cfg,
		logger:  log,
	}
}

// WithRateLimiter adds a limit shared by every process using the same Redis
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *Client {
	c.shared = limiter
	c.sharedC = cfg
	return c
}

// wait paces one outgoing request
func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if c.shared != nil {
		return c.shared.Wait(ctx, c.sharedC)
	}
	return nil
}
