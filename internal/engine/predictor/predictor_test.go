package predictor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine/gbt"
	"github.com/wonny/tradewise/backend/internal/engine/trainer"
	"github.com/wonny/tradewise/backend/internal/tradedata"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

func trainedBundle(t *testing.T) *contracts.ModelBundle {
	t.Helper()

	cfg := trainer.DefaultConfig()
	cfg.ProfitParams.NumTrees = 30
	cfg.DeliveryParams.NumTrees = 30

	table := tradedata.Generate(200, 42)
	bundle, _, err := trainer.New(cfg, logger.Discard()).Fit(
		table, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	require.NoError(t, err)
	return bundle
}

// constantBundle builds a minimal bundle whose models always return fixed
// values, so edge behavior can be pinned exactly.
func constantBundle(t *testing.T, profit, days float64) *contracts.ModelBundle {
	t.Helper()

	x := [][]float64{{1}, {2}}
	profitModel, err := gbt.Fit(x, []float64{profit, profit}, gbt.DefaultParams())
	require.NoError(t, err)
	deliveryModel, err := gbt.Fit(x, []float64{days, days}, gbt.DefaultParams())
	require.NoError(t, err)

	encoders := make(map[string]map[string]int)
	for _, col := range contracts.CategoricalColumns {
		encoders[col] = map[string]int{"": 0}
	}
	return &contracts.ModelBundle{
		SchemaVersion: contracts.BundleSchemaVersion,
		TrainedAt:     time.Now().UTC(),
		FeatureNames:  []string{contracts.ColQuantity},
		Encoders:      encoders,
		ColumnMeans:   map[string]float64{contracts.ColQuantity: 5},
		Scaler:        contracts.ScalerParams{Mean: []float64{0}, Std: []float64{1}},
		ProfitModel:   profitModel,
		DeliveryModel: deliveryModel,
	}
}

func fullScenario() contracts.RawScenario {
	orderDate := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	return contracts.RawScenario{
		Quantity:                  contracts.Float64(1000),
		DealerCostPerUnit:         contracts.Float64(200),
		LogisticsCostPerKg:        contracts.Float64(5),
		ImportDutyRate:            contracts.Float64(7.5),
		ExportDutyRate:            contracts.Float64(0.5),
		ExchangeRate:              contracts.Float64(83.2),
		DealerQualityScore:        contracts.Float64(0.9),
		DealerReliabilityScore:    contracts.Float64(0.8),
		DealerDeliveryPerformance: contracts.Float64(0.7),
		AverageDeliveryDays:       contracts.Float64(30),
		DelayProbability:          contracts.Float64(0.1),
		DefectRate:                contracts.Float64(0.05),
		MarketPrice:               contracts.Float64(500),

		DealerCountry:      "India",
		DestinationCountry: "Germany",
		ProductCategory:    "Machinery",
		TransportMode:      "sea",
		DealerBusinessType: "manufacturer",
		OrderDate:          &orderDate,
	}
}

func TestNewFromBundleValidation(t *testing.T) {
	_, err := NewFromBundle(nil)
	assert.ErrorIs(t, err, contracts.ErrNotTrained)

	bundle := trainedBundle(t)
	bundle.SchemaVersion = 99
	_, err = NewFromBundle(bundle)
	assert.ErrorIs(t, err, contracts.ErrIncompatibleBundle)

	empty := &contracts.ModelBundle{SchemaVersion: contracts.BundleSchemaVersion}
	_, err = NewFromBundle(empty)
	assert.ErrorIs(t, err, contracts.ErrNotTrained)
}

func TestPredictFullScenario(t *testing.T) {
	p, err := NewFromBundle(trainedBundle(t))
	require.NoError(t, err)

	scenario := fullScenario()
	pred, err := p.Predict(&scenario)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, pred.DeliveryDays, 1)
	assert.InDelta(t, 0.8, pred.Confidence, 1e-9, "no missing fields, no penalty")

	rec, reason := contracts.Recommend(pred.ProfitMargin, pred.DeliveryDays)
	assert.Equal(t, rec, pred.Recommendation)
	assert.Equal(t, reason, pred.Reason)

	assert.InDelta(t, 0.1, pred.RiskFactors[contracts.RiskDelivery], 1e-9)
	assert.InDelta(t, 0.05, pred.RiskFactors[contracts.RiskQuality], 1e-9)
	assert.Equal(t, 0.0, pred.RiskFactors[contracts.RiskCost], "below the cost threshold the risk clamps to zero")
	assert.InDelta(t, 0.2, pred.RiskFactors[contracts.RiskReliability], 1e-9)
}

func TestPredictCostRiskAboveThreshold(t *testing.T) {
	p, err := NewFromBundle(constantBundle(t, 20, 10))
	require.NoError(t, err)

	s := contracts.RawScenario{DealerCostPerUnit: contracts.Float64(800)}
	// cost ratio would fail without a market price, so supply one
	s.MarketPrice = contracts.Float64(1000)

	pred, err := p.Predict(&s)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, pred.RiskFactors[contracts.RiskCost], 1e-9)
}

func TestPredictConfidencePenalty(t *testing.T) {
	p, err := NewFromBundle(constantBundle(t, 12, 40))
	require.NoError(t, err)

	s := contracts.RawScenario{Quantity: contracts.Float64(100)}
	pred, err := p.Predict(&s)
	require.NoError(t, err)

	assert.InDelta(t, 0.8*0.9, pred.Confidence, 1e-9)
	assert.Equal(t, contracts.RecommendationStandard, pred.Recommendation)
}

func TestPredictDeliveryClampedToOne(t *testing.T) {
	p, err := NewFromBundle(constantBundle(t, 20, -5))
	require.NoError(t, err)

	s := contracts.RawScenario{}
	pred, err := p.Predict(&s)
	require.NoError(t, err)

	assert.Equal(t, 1, pred.DeliveryDays)
	assert.Equal(t, contracts.RecommendationHighly, pred.Recommendation)
}

func TestPredictUnknownCategory(t *testing.T) {
	p, err := NewFromBundle(trainedBundle(t))
	require.NoError(t, err)

	s := fullScenario()
	s.ProductCategory = "Quantum Widgets"
	_, err = p.Predict(&s)
	assert.ErrorIs(t, err, contracts.ErrUnknownCategory)
}

func TestPredictMissingModel(t *testing.T) {
	bundle := constantBundle(t, 20, 10)
	bundle.DeliveryModel = nil

	p, err := NewFromBundle(bundle)
	require.NoError(t, err)

	s := contracts.RawScenario{}
	_, err = p.Predict(&s)
	assert.ErrorIs(t, err, contracts.ErrNotTrained)
}
