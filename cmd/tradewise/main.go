package main

import (
	"os"

	"github.com/wonny/tradewise/backend/cmd/tradewise/commands"
)

// main is the entry point for the TradeWise CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/tradewise [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
