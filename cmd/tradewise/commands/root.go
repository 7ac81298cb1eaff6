package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tradewise",
	Short: "TradeWise - 무역 거래 수익 예측 및 딜러 랭킹 엔진",
	Long: `TradeWise Unified CLI

Gradient boosting 기반 무역 거래 수익/납기 예측과
다기준 가중치 딜러 랭킹을 제공합니다.

Usage:
  go run ./cmd/tradewise [command]

Examples:
  go run ./cmd/tradewise api
  go run ./cmd/tradewise train --csv data/trades.csv
  go run ./cmd/tradewise predict --input scenario.json
  go run ./cmd/tradewise rank
  go run ./cmd/tradewise seed --rows 1000`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default from STRATEGY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
