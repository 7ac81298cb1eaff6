package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/tradewise/backend/internal/contracts"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "단일 거래 시나리오 예측",
	Long: `저장된 모델 번들로 거래 시나리오 하나를 예측합니다.

입력은 JSON 파일 또는 stdin:

Example:
  go run ./cmd/tradewise predict --input scenario.json
  cat scenario.json | go run ./cmd/tradewise predict`,
	RunE: runPredict,
}

var predictInput string

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVar(&predictInput, "input", "", "시나리오 JSON 파일 (생략 시 stdin)")
}

func runPredict(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.service.Restore(context.Background()); err != nil {
		return fmt.Errorf("restore model bundle: %w", err)
	}

	in := os.Stdin
	if predictInput != "" {
		f, err := os.Open(predictInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var scenario contracts.RawScenario
	if err := json.NewDecoder(in).Decode(&scenario); err != nil {
		return fmt.Errorf("decode scenario: %w", err)
	}

	prediction, err := a.service.Predict(&scenario)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(prediction)
}
