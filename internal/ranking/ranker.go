// Package ranking scores and orders dealers by weighted multi-criteria
// evaluation. Deterministic: no model involved, same input → same order.
package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

// Weights control the contribution of each criterion to the final score.
// ⭐ SSOT: 랭킹 가중치 정의는 여기서만
type Weights struct {
	Cost        float64 `json:"cost" yaml:"cost"`
	Quality     float64 `json:"quality" yaml:"quality"`
	Delivery    float64 `json:"delivery" yaml:"delivery"`
	Reliability float64 `json:"reliability" yaml:"reliability"`
	Capacity    float64 `json:"capacity" yaml:"capacity"`
}

// DefaultWeights returns the production baseline weighting.
func DefaultWeights() Weights {
	return Weights{
		Cost:        0.25,
		Quality:     0.25,
		Delivery:    0.25,
		Reliability: 0.15,
		Capacity:    0.10,
	}
}

// weightSumTolerance allows for float noise when validating user weights.
const weightSumTolerance = 0.01

// Validate checks that the weights form a proper convex combination.
func (w Weights) Validate() error {
	sum := w.Cost + w.Quality + w.Delivery + w.Reliability + w.Capacity
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, expected 1.0", contracts.ErrInvalidWeights, sum)
	}
	for name, v := range map[string]float64{
		"cost": w.Cost, "quality": w.Quality, "delivery": w.Delivery,
		"reliability": w.Reliability, "capacity": w.Capacity,
	} {
		if v < 0 {
			return fmt.Errorf("%w: negative weight %q", contracts.ErrInvalidWeights, name)
		}
	}
	return nil
}

// capacityCeiling is the supply volume at which the capacity criterion
// saturates at 1.0.
const capacityCeiling = 10000.0

// Ranker orders dealer summaries by composite score.
type Ranker struct {
	log *logger.Logger
}

// New creates a ranker.
func New(log *logger.Logger) *Ranker {
	return &Ranker{log: log.WithComponent("ranking")}
}

// Rank scores every dealer and returns a new slice sorted by descending
// score with contiguous 1-based ranks. The input slice is not modified.
func (r *Ranker) Rank(dealers []contracts.DealerSummary, w Weights) ([]contracts.DealerSummary, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]contracts.DealerSummary, len(dealers))
	copy(ranked, dealers)

	for i := range ranked {
		ranked[i].RankingScore = Score(&ranked[i], w)
	}

	// Stable sort keeps the input order for equal scores.
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].RankingScore > ranked[b].RankingScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	if r.log != nil && len(ranked) > 0 {
		r.log.WithFields(map[string]interface{}{
			"dealers":   len(ranked),
			"top_score": ranked[0].RankingScore,
		}).Debug("Dealer ranking computed")
	}
	return ranked, nil
}

// Score computes the composite score for one dealer, rounded to 3 decimals.
func Score(d *contracts.DealerSummary, w Weights) float64 {
	score := w.Cost*costEfficiency(d) +
		w.Quality*d.QualityScore +
		w.Delivery*d.DeliveryPerformance +
		w.Reliability*d.ReliabilityScore +
		w.Capacity*capacityScore(d.MaxSupplyCapacity)
	return math.Round(score*1000) / 1000
}

// costEfficiency maps unit cost into [0,1] against a reference ceiling.
// Without an explicit reference the ceiling defaults to 1.5x the dealer's
// own cost, which yields a constant 1/3. 기준가 미지정 시 고정값이 됨
func costEfficiency(d *contracts.DealerSummary) float64 {
	ref := d.MaxReferenceCost
	if ref <= 0 {
		ref = d.CostPerUnit * 1.5
	}
	if ref <= 0 {
		return 0
	}
	return (ref - d.CostPerUnit) / ref
}

func capacityScore(capacity float64) float64 {
	return math.Min(1, capacity/capacityCeiling)
}
