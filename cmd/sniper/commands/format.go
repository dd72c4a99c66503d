package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/sniper/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	ruleHeavy = "═══════════════════════════════════════════════════════════"
	ruleLight = "───────────────────────────────────────────────────────────"
)

// PrintHeader prints a formatted command header
func PrintHeader(title string) {
	fmt.Println()
	fmt.Println(ruleHeavy)
	fmt.Printf("  %s\n", title)
	fmt.Println(ruleLight)
	fmt.Printf("  Started   : %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(ruleLight)
}

// PrintSummary prints the counters of one scan run
func PrintSummary(s *contracts.ScanSummary) {
	if s == nil {
		return
	}
	fmt.Println()
	fmt.Println(ruleHeavy)
	fmt.Println("  Scan Summary")
	fmt.Println(ruleLight)
	fmt.Printf("  Universe  : %d (%s)\n", s.UniverseSize, orDash(s.Source))
	fmt.Printf("  Batches   : %d (failed %d)\n", s.Batches, s.FailedBatches)
	fmt.Printf("  Evaluated : %d\n", s.Evaluated)
	fmt.Printf("  Survivors : %d\n", s.Survivors)
	fmt.Printf("  Analyzed  : %d\n", s.Analyzed)
	fmt.Printf("  Accepted  : %d\n", s.Accepted)
	fmt.Printf("  Saved     : %d (failed %d)\n", s.Saved, s.SaveFailures)
	fmt.Printf("  Duration  : %s\n", s.Duration.Round(time.Millisecond))
	fmt.Println(ruleHeavy)
}

// PrintBreakdown prints one deep analysis result
func PrintBreakdown(b contracts.ScoreBreakdown) {
	fmt.Println()
	fmt.Printf("🎯 %s  score %d\n", b.Ticker, b.FinalScore)
	fmt.Println(ruleLight)
	for _, f := range b.Factors {
		if f.Explanation == "" {
			continue
		}
		fmt.Printf("  %-16s %+4d  %s\n", f.Factor, f.Delta, f.Explanation)
	}
}

// PrintSignals prints stored signals with their reasons split per line
func PrintSignals(signals []*contracts.Signal) {
	if len(signals) == 0 {
		fmt.Println("No signals found.")
		return
	}

	fmt.Printf("%-8s %10s %6s  %-19s\n", "TICKER", "ENTRY", "SCORE", "CREATED")
	fmt.Println(ruleLight)
	for _, s := range signals {
		fmt.Printf("%-8s %10.2f %6.0f  %-19s\n",
			s.Ticker, s.EntryPrice, s.ConfidenceScore, s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		for _, r := range s.ReasonList() {
			fmt.Printf("    - %s\n", strings.TrimSpace(r))
		}
	}
	fmt.Println(ruleLight)
	fmt.Printf("%d signal(s)\n", len(signals))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
