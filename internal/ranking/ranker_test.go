package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	bad := Weights{Cost: 0.5, Quality: 0.5, Delivery: 0.5}
	assert.ErrorIs(t, bad.Validate(), contracts.ErrInvalidWeights)

	negative := Weights{Cost: 1.2, Quality: -0.2}
	assert.ErrorIs(t, negative.Validate(), contracts.ErrInvalidWeights)

	// 합은 1.0 ± 0.01까지 허용
	slightlyOff := Weights{Cost: 0.255, Quality: 0.25, Delivery: 0.25, Reliability: 0.15, Capacity: 0.10}
	assert.NoError(t, slightlyOff.Validate())
}

func TestScoreWorkedScenario(t *testing.T) {
	d := contracts.DealerSummary{
		CostPerUnit:         500,
		QualityScore:        0.9,
		DeliveryPerformance: 0.8,
		ReliabilityScore:    0.95,
		MaxSupplyCapacity:   5000,
		// MaxReferenceCost unset: reference defaults to 750
	}

	score := Score(&d, DefaultWeights())
	assert.Equal(t, 0.701, score)
}

func TestScoreExplicitReferenceCost(t *testing.T) {
	d := contracts.DealerSummary{
		CostPerUnit:       500,
		MaxReferenceCost:  1000,
		MaxSupplyCapacity: 20000, // saturates at 1.0
	}

	// cost term 0.25*0.5, capacity term 0.10*1.0
	score := Score(&d, DefaultWeights())
	assert.Equal(t, 0.225, score)
}

func TestRankOrdersAndNumbers(t *testing.T) {
	dealers := []contracts.DealerSummary{
		{ID: 1, Name: "low", QualityScore: 0.2, DeliveryPerformance: 0.2, ReliabilityScore: 0.2, CostPerUnit: 100, MaxSupplyCapacity: 100},
		{ID: 2, Name: "high", QualityScore: 0.95, DeliveryPerformance: 0.95, ReliabilityScore: 0.95, CostPerUnit: 100, MaxSupplyCapacity: 9000},
		{ID: 3, Name: "mid", QualityScore: 0.6, DeliveryPerformance: 0.6, ReliabilityScore: 0.6, CostPerUnit: 100, MaxSupplyCapacity: 4000},
	}

	r := New(logger.Discard())
	ranked, err := r.Rank(dealers, DefaultWeights())
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, int64(2), ranked[0].ID)
	assert.Equal(t, int64(3), ranked[1].ID)
	assert.Equal(t, int64(1), ranked[2].ID)
	for i, d := range ranked {
		assert.Equal(t, i+1, d.Rank)
	}

	// Input slice is untouched.
	assert.Zero(t, dealers[0].Rank)
	assert.Zero(t, dealers[0].RankingScore)

	assert.True(t, ranked[0].IsTopRanked(1))
	assert.False(t, ranked[2].IsTopRanked(2))
}

func TestRankStableForEqualScores(t *testing.T) {
	// Identical dealers: stable sort must keep input order.
	same := contracts.DealerSummary{QualityScore: 0.5, DeliveryPerformance: 0.5, ReliabilityScore: 0.5, CostPerUnit: 200, MaxSupplyCapacity: 1000}
	a, b, c := same, same, same
	a.ID, b.ID, c.ID = 10, 20, 30

	r := New(logger.Discard())
	ranked, err := r.Rank([]contracts.DealerSummary{a, b, c}, DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, []int64{10, 20, 30}, []int64{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestRankDeterministicAcrossRuns(t *testing.T) {
	dealers := []contracts.DealerSummary{
		{ID: 1, QualityScore: 0.7, DeliveryPerformance: 0.4, ReliabilityScore: 0.9, CostPerUnit: 320, MaxSupplyCapacity: 2500},
		{ID: 2, QualityScore: 0.8, DeliveryPerformance: 0.9, ReliabilityScore: 0.5, CostPerUnit: 180, MaxSupplyCapacity: 7000},
	}

	r := New(logger.Discard())
	first, err := r.Rank(dealers, DefaultWeights())
	require.NoError(t, err)
	second, err := r.Rank(dealers, DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRankInvalidWeights(t *testing.T) {
	r := New(logger.Discard())
	_, err := r.Rank([]contracts.DealerSummary{{ID: 1}}, Weights{Cost: 1, Quality: 1})
	assert.ErrorIs(t, err, contracts.ErrInvalidWeights)
}
