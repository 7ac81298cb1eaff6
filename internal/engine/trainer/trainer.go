// Package trainer fits the dual profit/delivery regression models and
// produces the immutable model bundle consumed by the predictor.
package trainer

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine/features"
	"github.com/wonny/tradewise/backend/internal/engine/gbt"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

// Config holds the training hyperparameters. Exposed as configuration, not
// hard constants; DefaultConfig mirrors the production baseline.
type Config struct {
	ProfitParams   gbt.Params `yaml:"profit_params"`
	DeliveryParams gbt.Params `yaml:"delivery_params"`

	// MinTrainingRows below which metrics carry the low-confidence flag.
	// Training still proceeds.
	MinTrainingRows int `yaml:"min_training_rows"`

	// HoldoutFraction of rows reserved for evaluation (seeded shuffle).
	HoldoutFraction float64 `yaml:"holdout_fraction"`

	// Seed drives the train/holdout shuffle. 고정 시드 → 재현 가능한 학습
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the baseline training configuration.
func DefaultConfig() Config {
	return Config{
		ProfitParams:   gbt.Params{NumTrees: 200, MaxDepth: 15, LearningRate: 0.1, MinSamplesLeaf: 1},
		DeliveryParams: gbt.Params{NumTrees: 150, MaxDepth: 12, LearningRate: 0.1, MinSamplesLeaf: 1},

		MinTrainingRows: 50,
		HoldoutFraction: 0.2,
		Seed:            42,
	}
}

// Trainer fits both regression targets from a training table.
// Not re-entrant: callers must serialize Fit calls on one instance.
type Trainer struct {
	cfg Config
	log *logger.Logger
}

// New creates a trainer.
func New(cfg Config, log *logger.Logger) *Trainer {
	return &Trainer{
		cfg: cfg,
		log: log.WithComponent("engine.trainer"),
	}
}

// Fit trains the profit and delivery regressors on the table and returns the
// frozen bundle plus holdout fit metrics.
func (t *Trainer) Fit(table *contracts.Table, profitCol, deliveryCol string) (*contracts.ModelBundle, *contracts.FitMetrics, error) {
	n := table.Rows()
	if n == 0 {
		return nil, nil, contracts.ErrEmptyTrainingSet
	}

	profitY, hasProfit := table.NumericColumn(profitCol)
	deliveryY, hasDelivery := table.NumericColumn(deliveryCol)
	if !hasProfit && !hasDelivery {
		return nil, nil, fmt.Errorf("%w: neither %q nor %q present", contracts.ErrMissingTarget, profitCol, deliveryCol)
	}

	start := time.Now()

	transformer := features.NewTransformer()
	rows, err := transformer.Transform(table.Scenarios(), true)
	if err != nil {
		return nil, nil, fmt.Errorf("feature transform: %w", err)
	}

	names := selectFeatures(rows)
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("%w: no usable feature columns", contracts.ErrEmptyTrainingSet)
	}
	means := columnMeans(rows, names)

	matrix := buildMatrix(rows, names, means)
	scaler := fitScaler(matrix)
	for i := range matrix {
		matrix[i] = scaler.Apply(matrix[i])
	}

	trainIdx, holdoutIdx := t.split(n)

	bundle := &contracts.ModelBundle{
		SchemaVersion: contracts.BundleSchemaVersion,
		TrainedAt:     time.Now().UTC(),
		FeatureNames:  names,
		Encoders:      transformer.Encoders(),
		ColumnMeans:   means,
		Scaler:        scaler,
		Importance:    make(map[string]map[string]float64),
	}
	metrics := &contracts.FitMetrics{
		TrainingRows:  len(trainIdx),
		HoldoutRows:   len(holdoutIdx),
		LowConfidence: n < t.cfg.MinTrainingRows,
	}

	if hasProfit {
		model, tm, err := fitTarget(matrix, profitY, t.cfg.ProfitParams, trainIdx, holdoutIdx)
		if err != nil {
			return nil, nil, fmt.Errorf("profit model: %w", err)
		}
		bundle.ProfitModel = model
		metrics.Profit = tm
		if imp := importanceMap(names, model); imp != nil {
			bundle.Importance["profit_model"] = imp
		}
	}
	if hasDelivery {
		model, tm, err := fitTarget(matrix, deliveryY, t.cfg.DeliveryParams, trainIdx, holdoutIdx)
		if err != nil {
			return nil, nil, fmt.Errorf("delivery model: %w", err)
		}
		bundle.DeliveryModel = model
		metrics.Delivery = tm
		if imp := importanceMap(names, model); imp != nil {
			bundle.Importance["delivery_model"] = imp
		}
	}

	t.log.WithFields(map[string]interface{}{
		"training_rows":  len(trainIdx),
		"holdout_rows":   len(holdoutIdx),
		"features":       len(names),
		"low_confidence": metrics.LowConfidence,
		"duration":       time.Since(start),
	}).Info("Model training completed")

	return bundle, metrics, nil
}

// split shuffles row indices with the configured seed and carves off the
// holdout fraction. With very small tables the holdout may be empty; metrics
// are then computed on the training rows.
func (t *Trainer) split(n int) (train, holdout []int) {
	perm := rand.New(rand.NewSource(t.cfg.Seed)).Perm(n)
	h := int(float64(n) * t.cfg.HoldoutFraction)
	return perm[h:], perm[:h]
}

func fitTarget(matrix [][]float64, target []float64, params gbt.Params, trainIdx, holdoutIdx []int) (*gbt.Model, *contracts.TargetMetrics, error) {
	y, err := imputeTarget(target)
	if err != nil {
		return nil, nil, err
	}

	trainX := make([][]float64, len(trainIdx))
	trainY := make([]float64, len(trainIdx))
	for i, idx := range trainIdx {
		trainX[i] = matrix[idx]
		trainY[i] = y[idx]
	}

	model, err := gbt.Fit(trainX, trainY, params)
	if err != nil {
		return nil, nil, err
	}

	evalIdx := holdoutIdx
	if len(evalIdx) == 0 {
		evalIdx = trainIdx
	}
	tm := evaluate(model, matrix, y, evalIdx)
	return model, tm, nil
}

// imputeTarget replaces missing (NaN) target cells with the column mean.
func imputeTarget(target []float64) ([]float64, error) {
	sum, count := 0.0, 0
	for _, v := range target {
		if !math.IsNaN(v) {
			sum += v
			count++
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: target column has no values", contracts.ErrMissingTarget)
	}
	mean := sum / float64(count)

	out := make([]float64, len(target))
	for i, v := range target {
		if math.IsNaN(v) {
			out[i] = mean
		} else {
			out[i] = v
		}
	}
	return out, nil
}

func evaluate(model *gbt.Model, matrix [][]float64, y []float64, idx []int) *contracts.TargetMetrics {
	meanY := 0.0
	for _, i := range idx {
		meanY += y[i]
	}
	meanY /= float64(len(idx))

	sse, sst, absErr := 0.0, 0.0, 0.0
	for _, i := range idx {
		pred, _ := model.Predict(matrix[i])
		diff := y[i] - pred
		sse += diff * diff
		sst += (y[i] - meanY) * (y[i] - meanY)
		absErr += math.Abs(diff)
	}

	n := float64(len(idx))
	r2 := 0.0
	if sst > 0 {
		r2 = 1 - sse/sst
	}
	return &contracts.TargetMetrics{
		R2:   r2,
		RMSE: math.Sqrt(sse / n),
		MAE:  absErr / n,
	}
}

// importanceMap keys the model's normalized gain importances by feature name.
func importanceMap(names []string, model *gbt.Model) map[string]float64 {
	imp := model.FeatureImportance()
	if len(imp) != len(names) {
		return nil
	}
	out := make(map[string]float64, len(names))
	for i, name := range names {
		out[name] = imp[i]
	}
	return out
}

// selectFeatures intersects the fixed candidate order with the columns that
// actually materialized in the transformed batch.
func selectFeatures(rows []features.FeatureRow) []string {
	var names []string
	for _, name := range features.CandidateFeatures() {
		for _, row := range rows {
			if _, ok := row[name]; ok {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// columnMeans computes the fit-time mean of each selected feature over the
// rows where it is present. These means are frozen into the bundle and reused
// for inference-time imputation.
func columnMeans(rows []features.FeatureRow, names []string) map[string]float64 {
	means := make(map[string]float64, len(names))
	for _, name := range names {
		sum, count := 0.0, 0
		for _, row := range rows {
			if v, ok := row[name]; ok {
				sum += v
				count++
			}
		}
		if count > 0 {
			means[name] = sum / float64(count)
		}
	}
	return means
}

// buildMatrix materializes rows in frozen feature order, imputing missing
// cells with the fit-time column means.
func buildMatrix(rows []features.FeatureRow, names []string, means map[string]float64) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i, row := range rows {
		vec := make([]float64, len(names))
		for j, name := range names {
			if v, ok := row[name]; ok {
				vec[j] = v
			} else {
				vec[j] = means[name]
			}
		}
		matrix[i] = vec
	}
	return matrix
}

// fitScaler computes per-column mean and standard deviation. Zero-variance
// columns get std 1 so scaling stays a total function.
func fitScaler(matrix [][]float64) contracts.ScalerParams {
	cols := len(matrix[0])
	n := float64(len(matrix))

	mean := make([]float64, cols)
	for _, row := range matrix {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	std := make([]float64, cols)
	for _, row := range matrix {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			std[j] = 1
		}
	}

	return contracts.ScalerParams{Mean: mean, Std: std}
}
