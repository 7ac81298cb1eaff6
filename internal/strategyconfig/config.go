// Package strategyconfig loads and validates the YAML strategy file that
// drives training hyperparameters and ranking weights.
// ⭐ SSOT: 전략 파라미터는 이 파일에서만 정의
package strategyconfig

import (
	"time"

	"github.com/wonny/tradewise/backend/internal/engine/gbt"
	"github.com/wonny/tradewise/backend/internal/ranking"
)

// Config는 예측/랭킹 전략의 전체 설정
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Training Training `yaml:"training" json:"training"`
	Ranking  Ranking  `yaml:"ranking" json:"ranking"`
	Data     Data     `yaml:"data" json:"data"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Training 학습 하이퍼파라미터
type Training struct {
	ProfitParams   gbt.Params `yaml:"profit_params" json:"profit_params"`
	DeliveryParams gbt.Params `yaml:"delivery_params" json:"delivery_params"`

	MinTrainingRows int     `yaml:"min_training_rows" json:"min_training_rows"`
	HoldoutFraction float64 `yaml:"holdout_fraction" json:"holdout_fraction"`
	Seed            int64   `yaml:"seed" json:"seed"`
}

// Ranking 딜러 랭킹 기준
type Ranking struct {
	Weights    ranking.Weights `yaml:"weights" json:"weights"`
	MaxResults int             `yaml:"max_results" json:"max_results"`
}

// Data 학습 데이터 소스
type Data struct {
	// Source is "csv" or "postgres".
	Source  string `yaml:"source" json:"source"`
	CSVPath string `yaml:"csv_path" json:"csv_path"`
}

// TrainingSnapshot ties a trained bundle to the exact strategy that
// produced it, for audit.
type TrainingSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	BundleKey  string    `json:"bundle_key"`
	CreatedAt  time.Time `json:"created_at"`
}
