package gbt

import (
	"math"
	"sort"
)

// Tree is a depth-limited regression tree stored as flat node arrays so the
// whole structure serializes to JSON without recursion.
// Feature[i] < 0 marks node i as a leaf; Value[i] is then the leaf output.
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// Predict walks the tree for one feature vector.
func (t *Tree) Predict(x []float64) float64 {
	node := 0
	for t.Feature[node] >= 0 {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return t.Value[node]
}

// treeBuilder grows one tree on the current residuals.
// 분할 탐색은 결정적: 피처 인덱스 오름차순, 엄격한 gain 개선만 채택
type treeBuilder struct {
	x       [][]float64 // row-major
	y       []float64   // residuals
	params  Params
	tree    *Tree
	gain    []float64 // split gain accumulated per feature
	numFeat int
}

func newTreeBuilder(x [][]float64, y []float64, p Params, numFeat int, gain []float64) *treeBuilder {
	return &treeBuilder{
		x:       x,
		y:       y,
		params:  p,
		tree:    &Tree{},
		gain:    gain,
		numFeat: numFeat,
	}
}

func (b *treeBuilder) build(indices []int) *Tree {
	b.grow(indices, 0)
	return b.tree
}

// grow appends a node for the index set and returns its position.
func (b *treeBuilder) grow(indices []int, depth int) int {
	id := b.addNode()

	sum, sumSq := 0.0, 0.0
	for _, i := range indices {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	n := float64(len(indices))
	b.tree.Value[id] = sum / n

	if depth >= b.params.MaxDepth || len(indices) < 2*b.params.MinSamplesLeaf {
		return id
	}

	feat, threshold, gain, ok := b.bestSplit(indices, sum, sumSq)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range indices {
		if b.x[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.tree.Feature[id] = feat
	b.tree.Threshold[id] = threshold
	b.gain[feat] += gain

	b.tree.Left[id] = b.grow(left, depth+1)
	b.tree.Right[id] = b.grow(right, depth+1)
	return id
}

const minSplitGain = 1e-12

// bestSplit finds the variance-reduction optimal split over all features.
func (b *treeBuilder) bestSplit(indices []int, sum, sumSq float64) (int, float64, float64, bool) {
	n := float64(len(indices))
	parentSSE := sumSq - sum*sum/n

	bestFeat, bestThreshold, bestGain := -1, 0.0, minSplitGain

	order := make([]int, len(indices))
	for feat := 0; feat < b.numFeat; feat++ {
		copy(order, indices)
		sortByFeature(order, b.x, feat)

		leftSum, leftSq := 0.0, 0.0
		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftSum += b.y[i]
			leftSq += b.y[i] * b.y[i]

			// split only between distinct feature values
			if b.x[i][feat] == b.x[order[pos+1]][feat] {
				continue
			}
			nl := float64(pos + 1)
			nr := n - nl
			if int(nl) < b.params.MinSamplesLeaf || int(nr) < b.params.MinSamplesLeaf {
				continue
			}

			rightSum := sum - leftSum
			rightSq := sumSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			gain := parentSSE - sse
			if gain > bestGain {
				bestFeat = feat
				bestThreshold = (b.x[i][feat] + b.x[order[pos+1]][feat]) / 2
				bestGain = gain
			}
		}
	}

	if bestFeat < 0 || math.IsNaN(bestThreshold) {
		return 0, 0, 0, false
	}
	return bestFeat, bestThreshold, bestGain, true
}

func (b *treeBuilder) addNode() int {
	b.tree.Feature = append(b.tree.Feature, -1)
	b.tree.Threshold = append(b.tree.Threshold, 0)
	b.tree.Left = append(b.tree.Left, -1)
	b.tree.Right = append(b.tree.Right, -1)
	b.tree.Value = append(b.tree.Value, 0)
	return len(b.tree.Feature) - 1
}

// sortByFeature sorts row indices by one feature value, index as tie-break so
// identical inputs always produce identical trees.
func sortByFeature(order []int, x [][]float64, feat int) {
	sort.Slice(order, func(a, b int) bool {
		if x[order[a]][feat] != x[order[b]][feat] {
			return x[order[a]][feat] < x[order[b]][feat]
		}
		return order[a] < order[b]
	})
}
