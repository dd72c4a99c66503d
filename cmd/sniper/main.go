package main

import (
	"os"

	"github.com/wonny/sniper/cmd/sniper/commands"
)

// main is the entry point for the Sniper CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/sniper [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
