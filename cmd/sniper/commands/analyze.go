package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER [TICKER...]",
	Short: "단일 종목 딥 스코어 출력",
	Long: `유동성 필터를 거치지 않고 딥 스코어만 계산해 출력합니다.
시그널은 저장하지 않습니다.

Example:
  go run ./cmd/sniper analyze NVDA
  go run ./cmd/sniper analyze AAPL MSFT`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	for _, ticker := range args {
		PrintBreakdown(a.scorer.Analyze(ctx, strings.ToUpper(strings.TrimSpace(ticker))))
	}
	return nil
}
