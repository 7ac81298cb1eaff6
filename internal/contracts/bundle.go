package contracts

import (
	"time"

	"github.com/wonny/tradewise/backend/internal/engine/gbt"
)

// BundleSchemaVersion is bumped whenever the serialized bundle layout changes
// incompatibly. Loaders reject any other version with ErrIncompatibleBundle.
const BundleSchemaVersion = 1

// ScalerParams holds the fitted standard-scaling transform, aligned with
// FeatureNames.
type ScalerParams struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Apply standard-scales one feature vector in place and returns it.
// Std values of zero were replaced by 1 at fit time.
func (p ScalerParams) Apply(x []float64) []float64 {
	for i := range x {
		x[i] = (x[i] - p.Mean[i]) / p.Std[i]
	}
	return x
}

// ModelBundle is the frozen artifact produced by one Trainer.Fit call:
// fitted regressors, encoder vocabularies, scaler, imputation means and the
// feature-name order used at fit time. Inference must reproduce the feature
// order exactly.
// ⭐ 불변 (immutable): Fit 이후 절대 수정하지 않음, 동시 읽기 안전
type ModelBundle struct {
	SchemaVersion int       `json:"schema_version"`
	TrainedAt     time.Time `json:"trained_at"`

	FeatureNames []string                  `json:"feature_names"`
	Encoders     map[string]map[string]int `json:"encoders"`     // categorical field -> value -> index
	ColumnMeans  map[string]float64        `json:"column_means"` // fit-time means for imputation
	Scaler       ScalerParams              `json:"scaler"`

	ProfitModel   *gbt.Model `json:"profit_model,omitempty"`
	DeliveryModel *gbt.Model `json:"delivery_model,omitempty"`

	// Importance maps feature name to normalized split gain, per model.
	Importance map[string]map[string]float64 `json:"importance,omitempty"`
}

// TargetMetrics are holdout fit-quality numbers for one regression target.
type TargetMetrics struct {
	R2   float64 `json:"r2"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
}

// FitMetrics reports fit quality for both targets.
// LowConfidence는 학습 행 수가 최소 기준 미만일 때 true
type FitMetrics struct {
	Profit   *TargetMetrics `json:"profit,omitempty"`
	Delivery *TargetMetrics `json:"delivery,omitempty"`

	// TrainingRows counts the rows the models were fit on, after the
	// holdout split. TrainingRows + HoldoutRows equals the table size.
	TrainingRows  int  `json:"training_rows"`
	HoldoutRows   int  `json:"holdout_rows"`
	LowConfidence bool `json:"low_confidence"`
}
