package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sniper/internal/contracts"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "외부 연결 점검",
	Long: `시그널 저장소, Redis, 유니버스 소스, 시세 API 연결을 점검합니다.

Example:
  go run ./cmd/sniper verify
  go run ./cmd/sniper verify --ticker AAPL`,
	RunE: runVerify,
}

var verifyTicker string

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyTicker, "ticker", "AAPL", "시세 점검용 종목")
}

type check struct {
	name string
	run  func(ctx context.Context) (string, error)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	checks := []check{
		{"signal store", func(ctx context.Context) (string, error) {
			if a.db != nil {
				health, err := a.db.Health(ctx)
				if err != nil {
					return "", err
				}
				if !health.Healthy {
					return "", fmt.Errorf("%s (run `sniper migrate`)", health.Error)
				}
				return health.String(), nil
			}
			signals, err := a.store.ListByStatus(ctx, contracts.SignalQuery{Status: contracts.SignalOpen, Limit: 1})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s reachable (%d open sample)", cfg.ResolvedStore(), len(signals)), nil
		}},
		{"redis", func(ctx context.Context) (string, error) {
			if !a.redis.Enabled() {
				return "disabled", nil
			}
			return "ok", a.redis.Ping(ctx)
		}},
		{"universe", func(ctx context.Context) (string, error) {
			u, err := a.resolver.Resolve(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d tickers from %s", u.Count(), u.Source), nil
		}},
		{"daily bars", func(ctx context.Context) (string, error) {
			bars, err := a.market.FetchDailyBars(ctx, []string{verifyTicker}, cfg.Scanner.FastFilterDays)
			if err != nil {
				return "", err
			}
			series := bars[verifyTicker]
			if len(series) == 0 {
				return "", fmt.Errorf("%s: %w", verifyTicker, contracts.ErrNoData)
			}
			last := series[len(series)-1]
			return fmt.Sprintf("%s close %.2f on %s", verifyTicker, last.Close, last.Date.Format("2006-01-02")), nil
		}},
		{"news", func(ctx context.Context) (string, error) {
			headlines, err := a.market.FetchNews(ctx, verifyTicker, cfg.Scanner.HeadlineCount)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d headline(s)", len(headlines)), nil
		}},
		{"analyst data", func(ctx context.Context) (string, error) {
			ref, err := a.market.FetchReference(ctx, verifyTicker)
			if err != nil {
				return "", err
			}
			if ref.TargetMeanPrice == nil {
				return fmt.Sprintf("rating %q, no target", ref.RecommendationKey), nil
			}
			return fmt.Sprintf("rating %q, target %.2f", ref.RecommendationKey, *ref.TargetMeanPrice), nil
		}},
	}

	PrintHeader("Setup Verification")

	failed := 0
	for _, c := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		detail, err := c.run(ctx)
		cancel()

		if err != nil {
			failed++
			fmt.Printf("  ❌ %-14s %v\n", c.name, err)
			continue
		}
		fmt.Printf("  ✅ %-14s %s\n", c.name, detail)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	fmt.Println("\nAll checks passed.")
	return nil
}
