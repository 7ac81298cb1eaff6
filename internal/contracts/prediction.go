package contracts

// Recommendation is the 4-tier sourcing verdict for a trade scenario.
type Recommendation string

const (
	RecommendationHighly   Recommendation = "Highly Recommended"
	RecommendationStandard Recommendation = "Recommended"
	RecommendationConsider Recommendation = "Consider"
	RecommendationAvoid    Recommendation = "Not Recommended"
)

// Recommend applies the tier rule to a profit-margin and delivery-day
// prediction. Conditions are evaluated top to bottom, first match wins.
func Recommend(profitMargin float64, deliveryDays int) (Recommendation, string) {
	switch {
	case profitMargin > 15 && deliveryDays <= 30:
		return RecommendationHighly, "High profit with fast delivery"
	case profitMargin > 10 && deliveryDays <= 45:
		return RecommendationStandard, "Good profit with reasonable delivery time"
	case profitMargin > 5:
		return RecommendationConsider, "Moderate profit potential"
	default:
		return RecommendationAvoid, "Low profit margin"
	}
}

// Risk factor keys returned by the predictor.
const (
	RiskDelivery    = "delivery_risk"
	RiskQuality     = "quality_risk"
	RiskCost        = "cost_risk"
	RiskReliability = "reliability_risk"
)

// TradePrediction is the caller-facing forecast for one scenario.
type TradePrediction struct {
	ProfitMargin float64 `json:"predicted_profit_margin"`
	DeliveryDays int     `json:"predicted_delivery_days"` // always >= 1
	Confidence   float64 `json:"confidence_score"`        // [0,1] heuristic

	Recommendation Recommendation `json:"recommendation"`
	Reason         string         `json:"reason"`

	// RiskFactors are diagnostic quantities derived from the scenario itself.
	// 점 예측에는 영향을 주지 않음
	RiskFactors map[string]float64 `json:"risk_factors"`
}
