package contracts

// DealerSummary is one dealer's aggregate profile used for ranking.
// RankingScore and Rank are assigned by the ranking system and not otherwise
// mutated.
type DealerSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Country      string `json:"country"`
	BusinessType string `json:"business_type"`

	CostPerUnit         float64 `json:"cost_per_unit"`
	QualityScore        float64 `json:"quality_score"`        // [0,1]
	DeliveryPerformance float64 `json:"delivery_performance"` // [0,1]
	ReliabilityScore    float64 `json:"reliability_score"`    // [0,1]
	MaxSupplyCapacity   float64 `json:"max_supply_capacity"`

	// MaxReferenceCost is the market-wide reference cost used for the cost
	// efficiency term. Zero means unset; the ranker then falls back to
	// 1.5 x CostPerUnit.
	MaxReferenceCost float64 `json:"max_reference_cost,omitempty"`

	RankingScore float64 `json:"ranking_score"`
	Rank         int     `json:"rank"` // 1-based
}

// IsTopRanked checks if the dealer is in the top N ranks.
func (d *DealerSummary) IsTopRanked(n int) bool {
	return d.Rank > 0 && d.Rank <= n
}
