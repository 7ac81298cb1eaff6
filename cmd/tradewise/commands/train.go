package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/tradedata"
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "모델 학습 (일회성)",
	Long: `학습 데이터로 수익률/납기 모델을 학습하고 번들을 저장합니다.

Example:
  go run ./cmd/tradewise train
  go run ./cmd/tradewise train --csv data/trades.csv`,
	RunE: runTrain,
}

var trainCSV string

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().StringVar(&trainCSV, "csv", "", "CSV 파일 경로 (전략 파일 설정 대신 사용)")
}

func runTrain(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TradeWise Model Training ===")

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	var table *contracts.Table
	if trainCSV != "" {
		table, err = tradedata.LoadCSV(trainCSV)
	} else {
		source, srcErr := a.tableSource()
		if srcErr != nil {
			return srcErr
		}
		table, err = source.LoadTable(ctx)
	}
	if err != nil {
		return fmt.Errorf("load training data: %w", err)
	}

	fit, err := a.service.Train(ctx, table)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	fmt.Printf("\n✅ Training complete (trained on %d rows, %d held out)\n", fit.TrainingRows, fit.HoldoutRows)
	if fit.LowConfidence {
		fmt.Println("⚠️  Low confidence: training set below minimum row count")
	}
	printTarget := func(name string, m *contracts.TargetMetrics) {
		if m == nil {
			fmt.Printf("  %-16s (not trained)\n", name)
			return
		}
		fmt.Printf("  %-16s R2=%.4f RMSE=%.4f MAE=%.4f\n", name, m.R2, m.RMSE, m.MAE)
	}
	printTarget("profit margin", fit.Profit)
	printTarget("delivery days", fit.Delivery)
	return nil
}
