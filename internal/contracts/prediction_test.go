package contracts

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendTiers(t *testing.T) {
	cases := []struct {
		profit float64
		days   int
		want   Recommendation
	}{
		{16, 25, RecommendationHighly},
		{11, 40, RecommendationStandard},
		{6, 50, RecommendationConsider},
		{3, 10, RecommendationAvoid},
		// Boundary checks: thresholds are strict on profit.
		{15, 25, RecommendationStandard},
		{10, 40, RecommendationConsider},
		{5, 10, RecommendationAvoid},
		{16, 31, RecommendationStandard},
		{16, 46, RecommendationConsider},
	}

	for _, c := range cases {
		got, reason := Recommend(c.profit, c.days)
		assert.Equal(t, c.want, got, "profit=%v days=%d", c.profit, c.days)
		assert.NotEmpty(t, reason)
	}
}

func TestTableScenarios(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.AddNumeric(ColQuantity, []float64{100, math.NaN()}))
	require.NoError(t, tbl.AddNumeric(ColMarketPrice, []float64{1000, 800}))
	require.NoError(t, tbl.AddCategorical(ColTransportMode, []string{"sea", ""}))

	date := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.SetOrderDates([]*time.Time{&date, nil}))

	scenarios := tbl.Scenarios()
	require.Len(t, scenarios, 2)

	require.NotNil(t, scenarios[0].Quantity)
	assert.Equal(t, 100.0, *scenarios[0].Quantity)
	assert.Equal(t, "sea", scenarios[0].TransportMode)
	require.NotNil(t, scenarios[0].OrderDate)
	assert.True(t, scenarios[0].OrderDate.Equal(date))

	// NaN cell maps to a nil pointer, empty string stays empty.
	assert.Nil(t, scenarios[1].Quantity)
	assert.Equal(t, "", scenarios[1].TransportMode)
	assert.Nil(t, scenarios[1].OrderDate)
}

func TestTableRejectsColumnLengthMismatch(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.AddNumeric(ColQuantity, []float64{1, 2, 3}))
	assert.Error(t, tbl.AddNumeric(ColMarketPrice, []float64{1, 2}))
	assert.Error(t, tbl.AddCategorical(ColTransportMode, []string{"sea"}))
}

func TestDealerIsTopRanked(t *testing.T) {
	d := DealerSummary{Rank: 3}
	assert.True(t, d.IsTopRanked(3))
	assert.False(t, d.IsTopRanked(2))

	unranked := DealerSummary{}
	assert.False(t, unranked.IsTopRanked(10))
}
