package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tradewise/backend/internal/ranking"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "딜러 랭킹 계산",
	Long: `저장된 딜러 풀을 다기준 가중치로 랭킹합니다.

Example:
  go run ./cmd/tradewise rank
  go run ./cmd/tradewise rank --top 5`,
	RunE: runRank,
}

var rankTop int

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().IntVar(&rankTop, "top", 0, "출력할 상위 딜러 수 (0 = 전략 파일 기본값)")
}

func runRank(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	dealers, err := a.dealerSource().List(context.Background())
	if err != nil {
		return fmt.Errorf("load dealers: %w", err)
	}

	ranker := ranking.New(a.log)
	ranked, err := ranker.Rank(dealers, a.strategy.Ranking.Weights)
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}

	top := rankTop
	if top <= 0 {
		top = a.strategy.Ranking.MaxResults
	}
	if top > len(ranked) {
		top = len(ranked)
	}

	fmt.Printf("=== Dealer Ranking (top %d of %d) ===\n\n", top, len(ranked))
	fmt.Printf("%-5s %-24s %-16s %-8s %s\n", "Rank", "Name", "Country", "Score", "Type")
	for _, d := range ranked[:top] {
		fmt.Printf("%-5d %-24s %-16s %-8.3f %s\n", d.Rank, d.Name, d.Country, d.RankingScore, d.BusinessType)
	}
	return nil
}
