package contracts

import "time"

// Column names shared by tables, CSV files and the feature pipeline
// ⭐ SSOT: 컬럼 이름은 여기서만 정의
const (
	ColQuantity                  = "quantity"
	ColDealerCostPerUnit         = "dealer_cost_per_unit"
	ColLogisticsCostPerKg        = "logistics_cost_per_kg"
	ColImportDutyRate            = "import_duty_rate"
	ColExportDutyRate            = "export_duty_rate"
	ColExchangeRate              = "exchange_rate"
	ColDealerQualityScore        = "dealer_quality_score"
	ColDealerReliabilityScore    = "dealer_reliability_score"
	ColDealerDeliveryPerformance = "dealer_delivery_performance"
	ColAverageDeliveryDays       = "average_delivery_days"
	ColDelayProbability          = "delay_probability"
	ColDefectRate                = "defect_rate"
	ColMarketPrice               = "market_price"

	ColDealerCountry      = "dealer_country"
	ColDestinationCountry = "destination_country"
	ColProductCategory    = "product_category"
	ColTransportMode      = "transport_mode"
	ColDealerBusinessType = "dealer_business_type"

	ColOrderDate = "order_date"

	// Training targets
	ColProfitMargin       = "profit_margin_percentage"
	ColActualDeliveryDays = "actual_delivery_days"
)

// CategoricalColumns lists the categorical fields that are label-encoded.
var CategoricalColumns = []string{
	ColDealerCountry,
	ColDestinationCountry,
	ColProductCategory,
	ColTransportMode,
	ColDealerBusinessType,
}

// RawScenario is one candidate trade deal to be forecast.
// Numeric fields are pointers: nil means absent, which is not the same as zero.
// 누락된 수치 필드는 학습 시점 평균으로 대체됨 (imputation)
type RawScenario struct {
	Quantity                  *float64 `json:"quantity"`
	DealerCostPerUnit         *float64 `json:"dealer_cost_per_unit"`
	LogisticsCostPerKg        *float64 `json:"logistics_cost_per_kg"`
	ImportDutyRate            *float64 `json:"import_duty_rate"`
	ExportDutyRate            *float64 `json:"export_duty_rate"`
	ExchangeRate              *float64 `json:"exchange_rate"`
	DealerQualityScore        *float64 `json:"dealer_quality_score"`
	DealerReliabilityScore    *float64 `json:"dealer_reliability_score"`
	DealerDeliveryPerformance *float64 `json:"dealer_delivery_performance"`
	AverageDeliveryDays       *float64 `json:"average_delivery_days"`
	DelayProbability          *float64 `json:"delay_probability"`
	DefectRate                *float64 `json:"defect_rate"`
	MarketPrice               *float64 `json:"market_price"`

	DealerCountry      string `json:"dealer_country"`
	DestinationCountry string `json:"destination_country"`
	ProductCategory    string `json:"product_category"`
	TransportMode      string `json:"transport_mode"`
	DealerBusinessType string `json:"dealer_business_type"`

	OrderDate *time.Time `json:"order_date,omitempty"`
}

// Float64 returns a pointer to v. Convenience for building scenarios.
func Float64(v float64) *float64 {
	return &v
}

// Numeric returns the scenario's raw numeric fields keyed by column name.
// Absent fields are not present in the map.
func (s *RawScenario) Numeric() map[string]float64 {
	out := make(map[string]float64, 13)
	put := func(name string, v *float64) {
		if v != nil {
			out[name] = *v
		}
	}
	put(ColQuantity, s.Quantity)
	put(ColDealerCostPerUnit, s.DealerCostPerUnit)
	put(ColLogisticsCostPerKg, s.LogisticsCostPerKg)
	put(ColImportDutyRate, s.ImportDutyRate)
	put(ColExportDutyRate, s.ExportDutyRate)
	put(ColExchangeRate, s.ExchangeRate)
	put(ColDealerQualityScore, s.DealerQualityScore)
	put(ColDealerReliabilityScore, s.DealerReliabilityScore)
	put(ColDealerDeliveryPerformance, s.DealerDeliveryPerformance)
	put(ColAverageDeliveryDays, s.AverageDeliveryDays)
	put(ColDelayProbability, s.DelayProbability)
	put(ColDefectRate, s.DefectRate)
	put(ColMarketPrice, s.MarketPrice)
	return out
}

// Categorical returns the scenario's categorical fields keyed by column name.
func (s *RawScenario) Categorical() map[string]string {
	return map[string]string{
		ColDealerCountry:      s.DealerCountry,
		ColDestinationCountry: s.DestinationCountry,
		ColProductCategory:    s.ProductCategory,
		ColTransportMode:      s.TransportMode,
		ColDealerBusinessType: s.DealerBusinessType,
	}
}

// MissingFields reports which raw numeric fields are absent.
// 신뢰도 할인 판단에 사용됨 (predictor confidence heuristic)
func (s *RawScenario) MissingFields() []string {
	all := []string{
		ColQuantity, ColDealerCostPerUnit, ColLogisticsCostPerKg,
		ColImportDutyRate, ColExportDutyRate, ColExchangeRate,
		ColDealerQualityScore, ColDealerReliabilityScore, ColDealerDeliveryPerformance,
		ColAverageDeliveryDays, ColDelayProbability, ColDefectRate, ColMarketPrice,
	}
	present := s.Numeric()
	var missing []string
	for _, name := range all {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
