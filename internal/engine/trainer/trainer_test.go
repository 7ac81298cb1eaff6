package trainer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine/features"
	"github.com/wonny/tradewise/backend/internal/tradedata"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

func newTestTrainer() *Trainer {
	cfg := DefaultConfig()
	// 테스트 속도를 위해 트리 수 축소
	cfg.ProfitParams.NumTrees = 30
	cfg.ProfitParams.MaxDepth = 6
	cfg.DeliveryParams.NumTrees = 30
	cfg.DeliveryParams.MaxDepth = 6
	return New(cfg, logger.Discard())
}

func TestFitEmptyTable(t *testing.T) {
	tr := newTestTrainer()

	_, _, err := tr.Fit(contracts.NewTable(), contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	assert.ErrorIs(t, err, contracts.ErrEmptyTrainingSet)
}

func TestFitMissingTargets(t *testing.T) {
	tr := newTestTrainer()

	table := contracts.NewTable()
	require.NoError(t, table.AddNumeric(contracts.ColQuantity, []float64{1, 2, 3}))

	_, _, err := tr.Fit(table, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	assert.ErrorIs(t, err, contracts.ErrMissingTarget)
}

func TestFitProducesBundle(t *testing.T) {
	tr := newTestTrainer()
	table := tradedata.Generate(200, 42)

	bundle, fit, err := tr.Fit(table, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	require.NoError(t, err)

	assert.Equal(t, contracts.BundleSchemaVersion, bundle.SchemaVersion)
	assert.False(t, bundle.TrainedAt.IsZero())
	require.NotNil(t, bundle.ProfitModel)
	require.NotNil(t, bundle.DeliveryModel)

	// Feature names keep candidate order and carry scaler columns 1:1.
	candidates := features.CandidateFeatures()
	pos := make(map[string]int, len(candidates))
	for i, name := range candidates {
		pos[name] = i
	}
	last := -1
	for _, name := range bundle.FeatureNames {
		idx, ok := pos[name]
		require.True(t, ok, "unexpected feature %s", name)
		assert.Greater(t, idx, last, "feature order must follow the candidate order")
		last = idx
	}
	assert.Len(t, bundle.Scaler.Mean, len(bundle.FeatureNames))
	assert.Len(t, bundle.Scaler.Std, len(bundle.FeatureNames))
	for _, std := range bundle.Scaler.Std {
		assert.NotZero(t, std)
	}

	// 80/20 split
	// 200 rows split 160 train / 40 holdout at the default 0.2 fraction.
	assert.Equal(t, 160, fit.TrainingRows)
	assert.Equal(t, 40, fit.HoldoutRows)
	assert.False(t, fit.LowConfidence)

	require.NotNil(t, fit.Profit)
	require.NotNil(t, fit.Delivery)
	assert.Greater(t, fit.Profit.R2, 0.0, "generated data carries real signal")
	assert.Greater(t, fit.Profit.RMSE, 0.0)
	assert.Greater(t, fit.Profit.MAE, 0.0)

	assert.NotEmpty(t, bundle.Importance["profit_model"])
	assert.NotEmpty(t, bundle.Importance["delivery_model"])
}

func TestFitDeterministic(t *testing.T) {
	table := tradedata.Generate(150, 7)

	b1, _, err := newTestTrainer().Fit(table, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	require.NoError(t, err)
	b2, _, err := newTestTrainer().Fit(table, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	require.NoError(t, err)

	assert.Equal(t, b1.FeatureNames, b2.FeatureNames)

	m1, _ := json.Marshal(b1.ProfitModel)
	m2, _ := json.Marshal(b2.ProfitModel)
	assert.Equal(t, m1, m2, "same table and seed must produce identical models")
}

func TestFitColumnOrderInvariant(t *testing.T) {
	src := tradedata.Generate(150, 7)

	// Rebuild the same table adding columns in reverse order. The fitted
	// bundle must not depend on physical column order.
	reversed := contracts.NewTable()
	for i := len(contracts.CategoricalColumns) - 1; i >= 0; i-- {
		name := contracts.CategoricalColumns[i]
		col, ok := src.CategoricalColumn(name)
		require.True(t, ok, name)
		require.NoError(t, reversed.AddCategorical(name, col))
	}
	numeric := []string{
		contracts.ColActualDeliveryDays, contracts.ColProfitMargin,
		contracts.ColMarketPrice, contracts.ColDefectRate, contracts.ColDelayProbability,
		contracts.ColAverageDeliveryDays, contracts.ColDealerDeliveryPerformance,
		contracts.ColDealerReliabilityScore, contracts.ColDealerQualityScore,
		contracts.ColExchangeRate, contracts.ColExportDutyRate, contracts.ColImportDutyRate,
		contracts.ColLogisticsCostPerKg, contracts.ColDealerCostPerUnit, contracts.ColQuantity,
	}
	for _, name := range numeric {
		col, ok := src.NumericColumn(name)
		require.True(t, ok, name)
		require.NoError(t, reversed.AddNumeric(name, col))
	}
	dates := make([]*time.Time, src.Rows())
	for i, s := range src.Scenarios() {
		dates[i] = s.OrderDate
	}
	require.NoError(t, reversed.SetOrderDates(dates))

	b1, _, err := newTestTrainer().Fit(src, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	require.NoError(t, err)
	b2, _, err := newTestTrainer().Fit(reversed, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	require.NoError(t, err)

	assert.Equal(t, b1.FeatureNames, b2.FeatureNames)
	m1, _ := json.Marshal(b1.ProfitModel)
	m2, _ := json.Marshal(b2.ProfitModel)
	assert.Equal(t, m1, m2)
}

func TestFitLowConfidence(t *testing.T) {
	tr := newTestTrainer()
	table := tradedata.Generate(20, 42)

	_, fit, err := tr.Fit(table, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	require.NoError(t, err)
	assert.True(t, fit.LowConfidence)
	assert.Equal(t, 16, fit.TrainingRows)
	assert.Equal(t, 4, fit.HoldoutRows)
}

func TestFitSingleTarget(t *testing.T) {
	tr := newTestTrainer()

	n := 60
	quantity := make([]float64, n)
	cost := make([]float64, n)
	price := make([]float64, n)
	profit := make([]float64, n)
	for i := 0; i < n; i++ {
		quantity[i] = float64(10 + i)
		cost[i] = float64(100 + i)
		price[i] = cost[i] * 2
		profit[i] = 50 - float64(i)*0.1
	}

	table := contracts.NewTable()
	require.NoError(t, table.AddNumeric(contracts.ColQuantity, quantity))
	require.NoError(t, table.AddNumeric(contracts.ColDealerCostPerUnit, cost))
	require.NoError(t, table.AddNumeric(contracts.ColMarketPrice, price))
	require.NoError(t, table.AddNumeric(contracts.ColProfitMargin, profit))

	bundle, fit, err := tr.Fit(table, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	require.NoError(t, err)

	assert.NotNil(t, bundle.ProfitModel)
	assert.Nil(t, bundle.DeliveryModel)
	assert.NotNil(t, fit.Profit)
	assert.Nil(t, fit.Delivery)
}
