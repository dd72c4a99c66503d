package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sniper",
	Short: "Sniper - US equity momentum scanner",
	Long: `Sniper Unified CLI

미국 주식 유니버스를 스캔해 모멘텀 시그널을 저장합니다.
S1 유니버스 → S2 유동성 필터 → S3 딥 스코어 → S4 시그널 저장.

Usage:
  go run ./cmd/sniper [command]

Examples:
  go run ./cmd/sniper scan
  go run ./cmd/sniper api
  go run ./cmd/sniper signals --limit 20
  go run ./cmd/sniper analyze NVDA`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
