// Package gbt implements least-squares gradient boosting over regression
// trees. Training is fully deterministic: greedy variance-reduction splits,
// no row or column subsampling, ties broken by feature index. The same matrix
// always yields the same model, bit for bit.
package gbt

import (
	"fmt"
	"math"
)

// Params are the boosting hyperparameters. Zero values fall back to defaults.
type Params struct {
	NumTrees       int     `json:"num_trees" yaml:"num_trees"`
	MaxDepth       int     `json:"max_depth" yaml:"max_depth"`
	LearningRate   float64 `json:"learning_rate" yaml:"learning_rate"`
	MinSamplesLeaf int     `json:"min_samples_leaf" yaml:"min_samples_leaf"`
}

// DefaultParams returns the baseline hyperparameters.
func DefaultParams() Params {
	return Params{
		NumTrees:       100,
		MaxDepth:       6,
		LearningRate:   0.1,
		MinSamplesLeaf: 1,
	}
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.NumTrees <= 0 {
		p.NumTrees = def.NumTrees
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = def.MaxDepth
	}
	if p.LearningRate <= 0 {
		p.LearningRate = def.LearningRate
	}
	if p.MinSamplesLeaf <= 0 {
		p.MinSamplesLeaf = def.MinSamplesLeaf
	}
	return p
}

// Model is a fitted gradient-boosted ensemble.
// F(x) = Base + LearningRate * sum(tree_m(x))
type Model struct {
	Base         float64   `json:"base"`
	LearningRate float64   `json:"learning_rate"`
	NumFeatures  int       `json:"num_features"`
	Trees        []Tree    `json:"trees"`
	Gain         []float64 `json:"gain"` // total split gain per feature
}

// Fit trains an ensemble on a row-major feature matrix.
func Fit(x [][]float64, y []float64, p Params) (*Model, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("gbt: no training rows")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("gbt: %d rows but %d targets", len(x), len(y))
	}
	numFeat := len(x[0])
	if numFeat == 0 {
		return nil, fmt.Errorf("gbt: no features")
	}
	p = p.withDefaults()

	base := 0.0
	for _, v := range y {
		base += v
	}
	base /= float64(len(y))

	m := &Model{
		Base:         base,
		LearningRate: p.LearningRate,
		NumFeatures:  numFeat,
		Gain:         make([]float64, numFeat),
	}

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = base
	}

	indices := make([]int, len(y))
	for i := range indices {
		indices[i] = i
	}

	residual := make([]float64, len(y))
	for t := 0; t < p.NumTrees; t++ {
		totalAbs := 0.0
		for i := range y {
			residual[i] = y[i] - pred[i]
			totalAbs += math.Abs(residual[i])
		}
		// nothing left to fit
		if totalAbs < 1e-12 {
			break
		}

		tree := newTreeBuilder(x, residual, p, numFeat, m.Gain).build(indices)
		m.Trees = append(m.Trees, *tree)

		for i := range pred {
			pred[i] += p.LearningRate * tree.Predict(x[i])
		}
	}

	return m, nil
}

// Predict scores one feature vector.
func (m *Model) Predict(x []float64) (float64, error) {
	if len(x) != m.NumFeatures {
		return 0, fmt.Errorf("gbt: expected %d features, got %d", m.NumFeatures, len(x))
	}
	out := m.Base
	for i := range m.Trees {
		out += m.LearningRate * m.Trees[i].Predict(x)
	}
	return out, nil
}

// FeatureImportance returns per-feature split gain normalized to sum 1.
// Returns nil when the ensemble never split.
func (m *Model) FeatureImportance() []float64 {
	total := 0.0
	for _, g := range m.Gain {
		total += g
	}
	if total == 0 {
		return nil
	}
	out := make([]float64, len(m.Gain))
	for i, g := range m.Gain {
		out[i] = g / total
	}
	return out
}
