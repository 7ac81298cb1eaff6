// Package features turns raw trade scenarios into engineered numeric feature
// rows. The transformer is pure except for its categorical encoder tables,
// which are built during fit and frozen afterwards.
package features

import (
	"fmt"

	"github.com/wonny/tradewise/backend/internal/contracts"
)

// Engineered feature names.
const (
	FeatCostPerUnitRatio   = "cost_per_unit_ratio"
	FeatTariffBurden       = "tariff_burden"
	FeatDealerPerformance  = "dealer_performance_score"
	FeatLogisticsCostRatio = "logistics_cost_ratio"
	FeatDeliverySpeedScore = "delivery_speed_score"
	FeatExchangeRateImpact = "exchange_rate_impact"
	FeatTotalRiskScore     = "total_risk_score"
	FeatOrderMonth         = "order_month"
	FeatOrderQuarter       = "order_quarter"
)

// EncodedSuffix marks the integer-encoded form of a categorical column.
const EncodedSuffix = "_encoded"

// FeatureRow is one engineered feature vector, keyed by feature name.
// Absent keys are missing values to be imputed downstream.
type FeatureRow map[string]float64

// CandidateFeatures is the fixed candidate superset, in the order frozen into
// a model bundle. The trainer intersects it with the columns actually present.
// ⭐ 순서가 중요: 추론은 학습 시점의 순서를 그대로 재현해야 함
func CandidateFeatures() []string {
	names := []string{
		contracts.ColQuantity,
		contracts.ColDealerCostPerUnit,
		contracts.ColLogisticsCostPerKg,
		contracts.ColImportDutyRate,
		contracts.ColExportDutyRate,
		contracts.ColExchangeRate,
		contracts.ColDealerQualityScore,
		contracts.ColDealerReliabilityScore,
		contracts.ColDealerDeliveryPerformance,
		contracts.ColAverageDeliveryDays,
		contracts.ColDelayProbability,
		contracts.ColDefectRate,
		FeatCostPerUnitRatio,
		FeatTariffBurden,
		FeatDealerPerformance,
		FeatLogisticsCostRatio,
		FeatDeliverySpeedScore,
		FeatExchangeRateImpact,
		FeatTotalRiskScore,
	}
	for _, col := range contracts.CategoricalColumns {
		names = append(names, col+EncodedSuffix)
	}
	return append(names, FeatOrderMonth, FeatOrderQuarter)
}

// Transformer maps raw scenarios to engineered feature rows.
// Not safe for concurrent use while fitting.
type Transformer struct {
	encoders map[string]*LabelEncoder
}

// NewTransformer creates a transformer with empty encoder tables.
func NewTransformer() *Transformer {
	t := &Transformer{encoders: make(map[string]*LabelEncoder)}
	for _, col := range contracts.CategoricalColumns {
		t.encoders[col] = NewLabelEncoder()
	}
	return t
}

// NewTransformerFromVocab restores a transformer from bundle encoder tables.
func NewTransformerFromVocab(vocab map[string]map[string]int) *Transformer {
	t := NewTransformer()
	for col, table := range vocab {
		t.encoders[col] = NewLabelEncoderFromVocab(table)
	}
	return t
}

// Encoders snapshots the fitted vocabulary tables for the bundle.
func (t *Transformer) Encoders() map[string]map[string]int {
	out := make(map[string]map[string]int, len(t.encoders))
	for col, enc := range t.encoders {
		out[col] = enc.Vocab()
	}
	return out
}

// Transform converts a batch of scenarios into feature rows.
// When fit is true the categorical vocabularies are extended from the batch;
// otherwise an unseen category is an ErrUnknownCategory condition.
func (t *Transformer) Transform(batch []contracts.RawScenario, fit bool) ([]FeatureRow, error) {
	if fit {
		for _, col := range contracts.CategoricalColumns {
			values := make([]string, len(batch))
			present := false
			for i := range batch {
				values[i] = batch[i].Categorical()[col]
				if values[i] != "" {
					present = true
				}
			}
			// A column that is empty across the whole batch is absent;
			// learning it would only add a constant feature.
			if present {
				t.encoders[col].Fit(values)
			}
		}
	}

	rows := make([]FeatureRow, len(batch))
	for i := range batch {
		row, err := t.transformOne(&batch[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = row
	}
	return rows, nil
}

func (t *Transformer) transformOne(s *contracts.RawScenario) (FeatureRow, error) {
	row := FeatureRow(s.Numeric())

	if err := deriveFeatures(row, s); err != nil {
		return nil, err
	}

	for _, col := range contracts.CategoricalColumns {
		enc := t.encoders[col]
		if enc.Len() == 0 {
			// Column never seen at fit time, no encoded feature exists.
			continue
		}
		value := s.Categorical()[col]
		idx, err := enc.Transform(value)
		if err != nil {
			if value == "" {
				// Empty on a column fitted without empties is a missing
				// input, left for imputation.
				continue
			}
			return nil, fmt.Errorf("%s: %w", col, err)
		}
		row[col+EncodedSuffix] = float64(idx)
	}

	return row, nil
}

// deriveFeatures computes the engineered fields in place. A ratio whose
// numerator is present but whose denominator is absent or zero is rejected
// rather than silently becoming Inf or NaN; a fully absent input just leaves
// the feature missing for mean imputation.
func deriveFeatures(row FeatureRow, s *contracts.RawScenario) error {
	cost, hasCost := row[contracts.ColDealerCostPerUnit]

	if hasCost {
		price, hasPrice := row[contracts.ColMarketPrice]
		if !hasPrice || price == 0 {
			return fmt.Errorf("%w: %s requires a non-zero market_price", contracts.ErrInvalidFeature, FeatCostPerUnitRatio)
		}
		row[FeatCostPerUnitRatio] = cost / price
	}

	if imp, ok := row[contracts.ColImportDutyRate]; ok {
		if exp, ok := row[contracts.ColExportDutyRate]; ok {
			row[FeatTariffBurden] = imp + exp
		}
	}

	quality, hasQuality := row[contracts.ColDealerQualityScore]
	reliability, hasReliability := row[contracts.ColDealerReliabilityScore]
	delivery, hasDelivery := row[contracts.ColDealerDeliveryPerformance]
	if hasQuality && hasReliability && hasDelivery {
		row[FeatDealerPerformance] = 0.3*quality + 0.3*reliability + 0.4*delivery
	}

	if logistics, ok := row[contracts.ColLogisticsCostPerKg]; ok {
		if !hasCost || cost == 0 {
			return fmt.Errorf("%w: %s requires a non-zero dealer_cost_per_unit", contracts.ErrInvalidFeature, FeatLogisticsCostRatio)
		}
		row[FeatLogisticsCostRatio] = logistics / cost
	}

	if days, ok := row[contracts.ColAverageDeliveryDays]; ok {
		denom := 1 + days/30
		if denom == 0 {
			return fmt.Errorf("%w: %s has a zero denominator", contracts.ErrInvalidFeature, FeatDeliverySpeedScore)
		}
		row[FeatDeliverySpeedScore] = 1 / denom
	}

	if rate, ok := row[contracts.ColExchangeRate]; ok && hasCost {
		row[FeatExchangeRateImpact] = rate * cost
	}

	delay, hasDelay := row[contracts.ColDelayProbability]
	defect, hasDefect := row[contracts.ColDefectRate]
	if hasDelay && hasDefect && hasReliability {
		row[FeatTotalRiskScore] = 0.5*delay + 0.3*defect + 0.2*(1-reliability)
	}

	if s.OrderDate != nil {
		row[FeatOrderMonth] = float64(s.OrderDate.Month())
		row[FeatOrderQuarter] = float64((int(s.OrderDate.Month())-1)/3 + 1)
	}

	return nil
}
