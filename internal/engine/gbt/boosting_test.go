package gbt

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitConstantTarget(t *testing.T) {
	x := [][]float64{{1, 0}, {2, 1}, {3, 0}, {4, 1}}
	y := []float64{5, 5, 5, 5}

	m, err := Fit(x, y, DefaultParams())
	require.NoError(t, err)

	// All residuals vanish at the base prediction, so no trees are grown.
	assert.Equal(t, 5.0, m.Base)
	assert.Empty(t, m.Trees)

	pred, err := m.Predict([]float64{9, 9})
	require.NoError(t, err)
	assert.Equal(t, 5.0, pred)
}

func TestFitSeparableSplit(t *testing.T) {
	// Feature 0 perfectly separates the two target levels.
	x := [][]float64{{1, 7}, {2, 3}, {3, 9}, {10, 2}, {11, 5}, {12, 8}}
	y := []float64{1, 1, 1, 10, 10, 10}

	m, err := Fit(x, y, Params{NumTrees: 50, MaxDepth: 3, LearningRate: 0.3})
	require.NoError(t, err)
	require.NotEmpty(t, m.Trees)

	low, err := m.Predict([]float64{2, 5})
	require.NoError(t, err)
	high, err := m.Predict([]float64{11, 5})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, low, 0.5)
	assert.InDelta(t, 10.0, high, 0.5)

	// All the gain should sit on the separating feature.
	imp := m.FeatureImportance()
	require.Len(t, imp, 2)
	assert.Greater(t, imp[0], 0.99)
}

func TestFitDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 200
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = []float64{rng.Float64() * 10, rng.Float64() * 5, rng.Float64()}
		y[i] = 3*x[i][0] - 2*x[i][1] + rng.NormFloat64()*0.1
	}

	m1, err := Fit(x, y, Params{NumTrees: 30, MaxDepth: 4, LearningRate: 0.1})
	require.NoError(t, err)
	m2, err := Fit(x, y, Params{NumTrees: 30, MaxDepth: 4, LearningRate: 0.1})
	require.NoError(t, err)

	b1, _ := json.Marshal(m1)
	b2, _ := json.Marshal(m2)
	assert.Equal(t, b1, b2, "same data must produce identical models")
}

func TestFitReducesTrainingError(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n := 300
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = []float64{rng.Float64() * 10, rng.Float64() * 10}
		y[i] = x[i][0]*x[i][1] + rng.NormFloat64()
	}

	m, err := Fit(x, y, Params{NumTrees: 100, MaxDepth: 6, LearningRate: 0.1})
	require.NoError(t, err)

	baseSSE, modelSSE := 0.0, 0.0
	for i := range x {
		pred, _ := m.Predict(x[i])
		baseSSE += (y[i] - m.Base) * (y[i] - m.Base)
		modelSSE += (y[i] - pred) * (y[i] - pred)
	}
	assert.Less(t, modelSSE, baseSSE*0.2, "boosting should cut training SSE")
}

func TestPredictDimensionMismatch(t *testing.T) {
	m, err := Fit([][]float64{{1, 2}, {3, 4}}, []float64{1, 2}, DefaultParams())
	require.NoError(t, err)

	_, err = m.Predict([]float64{1})
	assert.Error(t, err)
}

func TestFitErrors(t *testing.T) {
	_, err := Fit(nil, nil, DefaultParams())
	assert.Error(t, err)

	_, err = Fit([][]float64{{1}}, []float64{1, 2}, DefaultParams())
	assert.Error(t, err)

	_, err = Fit([][]float64{{}}, []float64{1}, DefaultParams())
	assert.Error(t, err)
}

func TestModelJSONRoundTrip(t *testing.T) {
	x := [][]float64{{1, 7}, {2, 3}, {10, 2}, {11, 5}}
	y := []float64{1, 1, 10, 10}

	m, err := Fit(x, y, Params{NumTrees: 10, MaxDepth: 2, LearningRate: 0.5})
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var restored Model
	require.NoError(t, json.Unmarshal(data, &restored))

	for _, row := range x {
		want, _ := m.Predict(row)
		got, err := restored.Predict(row)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(got))
		assert.InDelta(t, want, got, 1e-12)
	}
}
