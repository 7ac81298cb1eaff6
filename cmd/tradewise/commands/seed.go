package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tradewise/backend/internal/tradedata"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "합성 학습 데이터 생성",
	Long: `시드 고정 합성 거래 데이터와 딜러 풀을 생성합니다.

전략 파일의 data.source가 csv이면 CSV 파일로 저장하고,
postgres이면 trade 스키마 테이블에 적재합니다.

Example:
  go run ./cmd/tradewise seed --rows 1000
  go run ./cmd/tradewise seed --rows 5000 --seed 99`,
	RunE: runSeed,
}

var (
	seedRows    int
	seedValue   int64
	seedDealers int
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedRows, "rows", 1000, "생성할 거래 행 수")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 42, "난수 시드")
	seedCmd.Flags().IntVar(&seedDealers, "dealers", 30, "생성할 딜러 수")
}

func runSeed(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TradeWise Data Seeding ===")

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	table := tradedata.Generate(seedRows, seedValue)

	if a.strategy.Data.Source == "postgres" {
		ctx := context.Background()
		repo := tradedata.NewRepository(a.db.Pool)
		if err := repo.InsertScenarios(ctx, table); err != nil {
			return fmt.Errorf("insert transactions: %w", err)
		}
		dealers := tradedata.GenerateDealers(seedDealers, seedValue)
		if err := tradedata.NewDealerRepository(a.db.Pool).Upsert(ctx, dealers); err != nil {
			return fmt.Errorf("upsert dealers: %w", err)
		}
		fmt.Printf("✅ Inserted %d transactions and %d dealers into postgres\n", seedRows, seedDealers)
		return nil
	}

	path := a.strategy.Data.CSVPath
	if path == "" {
		path = "data/trades.csv"
	}
	if err := tradedata.WriteCSV(path, table); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	fmt.Printf("✅ Wrote %d transactions to %s\n", seedRows, path)
	return nil
}
