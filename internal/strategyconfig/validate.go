package strategyconfig

import (
	"fmt"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Training ===
	if err := validateParams("training.profit_params", cfg.Training.ProfitParams.NumTrees, cfg.Training.ProfitParams.MaxDepth, cfg.Training.ProfitParams.LearningRate); err != nil {
		return err
	}
	if err := validateParams("training.delivery_params", cfg.Training.DeliveryParams.NumTrees, cfg.Training.DeliveryParams.MaxDepth, cfg.Training.DeliveryParams.LearningRate); err != nil {
		return err
	}
	if cfg.Training.MinTrainingRows < 1 {
		return ValidationError{"training.min_training_rows", "must be >= 1"}
	}
	if cfg.Training.HoldoutFraction < 0 || cfg.Training.HoldoutFraction >= 1 {
		return ValidationError{"training.holdout_fraction", "must be in [0, 1)"}
	}

	// === Ranking ===
	if err := cfg.Ranking.Weights.Validate(); err != nil {
		return ValidationError{"ranking.weights", err.Error()}
	}
	if cfg.Ranking.MaxResults < 1 {
		return ValidationError{"ranking.max_results", "must be >= 1"}
	}

	// === Data ===
	switch cfg.Data.Source {
	case "", "csv", "postgres":
	default:
		return ValidationError{"data.source", fmt.Sprintf("unknown source %q", cfg.Data.Source)}
	}
	if cfg.Data.Source == "csv" && cfg.Data.CSVPath == "" {
		return ValidationError{"data.csv_path", "required when source is csv"}
	}

	return nil
}

// validateParams sanity-checks boosting hyperparameters. Zero values are
// allowed and resolved to defaults at fit time.
func validateParams(field string, numTrees, maxDepth int, learningRate float64) error {
	if numTrees < 0 {
		return ValidationError{field + ".num_trees", "must be >= 0"}
	}
	if maxDepth < 0 {
		return ValidationError{field + ".max_depth", "must be >= 0"}
	}
	if learningRate < 0 || learningRate > 1 {
		return ValidationError{field + ".learning_rate", "must be in [0, 1]"}
	}
	return nil
}
