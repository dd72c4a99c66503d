package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "전체 시장 스캔 1회 실행",
	Long: `유니버스를 해석하고 전체 파이프라인을 1회 실행합니다.

이 명령어는:
- NASDAQ 스크리너에서 유니버스 조회 (실패 시 S&P 500)
- 배치 단위 유동성 필터
- 생존 종목 딥 스코어링
- 임계값 초과 종목 시그널 저장

Example:
  go run ./cmd/sniper scan
  go run ./cmd/sniper scan -v`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Market Scan")

	// Ctrl+C stops between batches
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := a.scanner.Run(ctx)
	PrintSummary(summary)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	fmt.Println("\n✅ Market scan completed successfully.")
	return nil
}
