// Package predictor serves forecasts from a frozen model bundle.
// 예측 경로는 번들을 절대 수정하지 않음 (read-only)
package predictor

import (
	"fmt"
	"math"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine/features"
)

const (
	baseConfidence      = 0.8
	missingFieldPenalty = 0.9
)

// Predictor answers point forecasts for single trade scenarios.
// Safe for concurrent use: the bundle is immutable after training.
type Predictor struct {
	bundle      *contracts.ModelBundle
	transformer *features.Transformer
}

// NewFromBundle wraps a trained bundle. The encoder vocabulary is restored
// frozen, so unseen categorical values fail instead of growing the tables.
func NewFromBundle(b *contracts.ModelBundle) (*Predictor, error) {
	if b == nil {
		return nil, contracts.ErrNotTrained
	}
	if b.SchemaVersion != contracts.BundleSchemaVersion {
		return nil, fmt.Errorf("%w: bundle schema %d, engine expects %d",
			contracts.ErrIncompatibleBundle, b.SchemaVersion, contracts.BundleSchemaVersion)
	}
	if b.ProfitModel == nil && b.DeliveryModel == nil {
		return nil, contracts.ErrNotTrained
	}
	return &Predictor{
		bundle:      b,
		transformer: features.NewTransformerFromVocab(b.Encoders),
	}, nil
}

// Predict forecasts profit margin and delivery days for one scenario and
// attaches the recommendation tier plus diagnostic risk factors.
func (p *Predictor) Predict(s *contracts.RawScenario) (*contracts.TradePrediction, error) {
	if p.bundle.ProfitModel == nil {
		return nil, fmt.Errorf("%w: profit model missing from bundle", contracts.ErrNotTrained)
	}
	if p.bundle.DeliveryModel == nil {
		return nil, fmt.Errorf("%w: delivery model missing from bundle", contracts.ErrNotTrained)
	}

	vec, err := p.featureVector(s)
	if err != nil {
		return nil, err
	}

	profit, err := p.bundle.ProfitModel.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("profit model: %w", err)
	}
	rawDays, err := p.bundle.DeliveryModel.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("delivery model: %w", err)
	}

	// Floor to whole days, never below one.
	days := int(math.Floor(rawDays))
	if days < 1 {
		days = 1
	}

	confidence := baseConfidence
	if len(s.MissingFields()) > 0 {
		confidence *= missingFieldPenalty
	}

	rec, reason := contracts.Recommend(profit, days)

	return &contracts.TradePrediction{
		ProfitMargin:   profit,
		DeliveryDays:   days,
		Confidence:     confidence,
		Recommendation: rec,
		Reason:         reason,
		RiskFactors:    riskFactors(s),
	}, nil
}

// featureVector transforms the scenario with the frozen encoders, lays it out
// in bundle feature order with mean imputation, then applies the scaler.
func (p *Predictor) featureVector(s *contracts.RawScenario) ([]float64, error) {
	rows, err := p.transformer.Transform([]contracts.RawScenario{*s}, false)
	if err != nil {
		return nil, err
	}
	row := rows[0]

	vec := make([]float64, len(p.bundle.FeatureNames))
	for i, name := range p.bundle.FeatureNames {
		if v, ok := row[name]; ok {
			vec[i] = v
		} else {
			vec[i] = p.bundle.ColumnMeans[name]
		}
	}
	return p.bundle.Scaler.Apply(vec), nil
}

// riskFactors derives diagnostic risk scores from the raw scenario. Absent
// inputs simply have no entry; the map never feeds back into the models.
func riskFactors(s *contracts.RawScenario) map[string]float64 {
	out := make(map[string]float64, 4)
	if s.DelayProbability != nil {
		out[contracts.RiskDelivery] = *s.DelayProbability
	}
	if s.DefectRate != nil {
		out[contracts.RiskQuality] = *s.DefectRate
	}
	if s.DealerCostPerUnit != nil {
		out[contracts.RiskCost] = math.Max(0, (*s.DealerCostPerUnit-500)/1000)
	}
	if s.DealerReliabilityScore != nil {
		out[contracts.RiskReliability] = 1 - *s.DealerReliabilityScore
	}
	return out
}
