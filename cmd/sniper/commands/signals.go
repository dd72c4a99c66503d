package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sniper/internal/contracts"
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "저장된 시그널 조회",
	Long: `시그널 저장소에서 시그널을 조회합니다.

기본값은 OPEN 시그널을 점수 내림차순으로 출력합니다.

Example:
  go run ./cmd/sniper signals
  go run ./cmd/sniper signals --order created_at --limit 20
  go run ./cmd/sniper signals --status CLOSED`,
	RunE: runSignals,
}

var (
	signalsStatus string
	signalsOrder  string
	signalsLimit  int
)

func init() {
	rootCmd.AddCommand(signalsCmd)

	signalsCmd.Flags().StringVar(&signalsStatus, "status", string(contracts.SignalOpen), "OPEN | CLOSED")
	signalsCmd.Flags().StringVar(&signalsOrder, "order", string(contracts.OrderByScore), "score | created_at")
	signalsCmd.Flags().IntVar(&signalsLimit, "limit", 0, "최대 건수 (0 = 전체)")
}

func runSignals(cmd *cobra.Command, args []string) error {
	status, err := contracts.ParseSignalStatus(signalsStatus)
	if err != nil {
		return err
	}
	order, err := contracts.ParseSignalOrder(signalsOrder)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	signals, err := a.store.ListByStatus(ctx, contracts.SignalQuery{
		Status: status,
		Order:  order,
		Limit:  signalsLimit,
	})
	if err != nil {
		return fmt.Errorf("list signals: %w", err)
	}

	fmt.Printf("--- %s signals (by %s) ---\n", status, order)
	PrintSignals(signals)
	return nil
}
