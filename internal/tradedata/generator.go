package tradedata

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/wonny/tradewise/backend/internal/contracts"
)

// Reference master data for the synthetic generator.
// 실데이터 없이 개발/시연용 데이터셋 생성에 사용
var (
	generatorCountries = []string{
		"India", "United States", "China", "Germany", "Japan",
		"United Kingdom", "France", "Italy", "Brazil", "Canada",
	}
	generatorCategories = []string{
		"Textiles & Garments", "Agricultural Products", "Pharmaceuticals",
		"Chemicals", "Machinery", "Automotive Parts", "Jewelry & Gems",
		"IT Hardware", "Leather Products", "Handicrafts",
	}
	generatorBusinessTypes = []string{"manufacturer", "wholesaler", "retailer", "distributor"}
)

// transportProfile mirrors the relative cost/time/reliability of each mode.
type transportProfile struct {
	mode        string
	costFactor  float64
	timeFactor  float64
	reliability float64
}

var generatorTransports = []transportProfile{
	{"sea", 1.0, 1.0, 0.95},
	{"air", 4.5, 0.15, 0.98},
	{"road", 2.0, 0.8, 0.85},
	{"rail", 1.5, 0.9, 0.90},
}

// Generate builds a seeded synthetic transaction table with both training
// targets populated. Same seed and row count always produce the same table.
func Generate(rows int, seed int64) *contracts.Table {
	rng := rand.New(rand.NewSource(seed))
	epoch := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	numeric := make(map[string][]float64, len(numericColumns))
	for _, name := range numericColumns {
		numeric[name] = make([]float64, rows)
	}
	categorical := make(map[string][]string, len(contracts.CategoricalColumns))
	for _, name := range contracts.CategoricalColumns {
		categorical[name] = make([]string, rows)
	}
	dates := make([]*time.Time, rows)

	for i := 0; i < rows; i++ {
		transport := generatorTransports[rng.Intn(len(generatorTransports))]

		quantity := float64(rng.Intn(4990) + 10)
		unitCost := 10 + rng.Float64()*490
		marketPrice := unitCost * (1.3 + rng.Float64()*1.2)
		logistics := (0.5 + rng.Float64()*4.5) * transport.costFactor
		importDuty := rng.Float64() * 10
		exportDuty := rng.Float64() * 2
		exchangeRate := 0.5 + rng.Float64()*110
		quality := 0.7 + rng.Float64()*0.3
		reliability := 0.6 + rng.Float64()*0.4
		deliveryPerf := 0.6 + rng.Float64()*0.35
		avgDays := (3 + rng.Float64()*42) * transport.timeFactor
		delayProb := math.Round((1-transport.reliability)*(0.5+rng.Float64())*1000) / 1000
		defectRate := rng.Float64() * 0.1

		numeric[contracts.ColQuantity][i] = quantity
		numeric[contracts.ColDealerCostPerUnit][i] = round2(unitCost)
		numeric[contracts.ColLogisticsCostPerKg][i] = round2(logistics)
		numeric[contracts.ColImportDutyRate][i] = round2(importDuty)
		numeric[contracts.ColExportDutyRate][i] = round2(exportDuty)
		numeric[contracts.ColExchangeRate][i] = round2(exchangeRate)
		numeric[contracts.ColDealerQualityScore][i] = round3(quality)
		numeric[contracts.ColDealerReliabilityScore][i] = round3(reliability)
		numeric[contracts.ColDealerDeliveryPerformance][i] = round3(deliveryPerf)
		numeric[contracts.ColAverageDeliveryDays][i] = math.Ceil(avgDays)
		numeric[contracts.ColDelayProbability][i] = delayProb
		numeric[contracts.ColDefectRate][i] = round3(defectRate)
		numeric[contracts.ColMarketPrice][i] = round2(marketPrice)

		// Targets follow the economics of the row plus noise, so the
		// regressors have real structure to learn.
		grossMargin := (marketPrice - unitCost - logistics - unitCost*(importDuty+exportDuty)/100) / marketPrice * 100
		numeric[contracts.ColProfitMargin][i] = round2(grossMargin + rng.NormFloat64()*3)

		actual := avgDays * (1 + delayProb*rng.Float64())
		if actual < 1 {
			actual = 1
		}
		numeric[contracts.ColActualDeliveryDays][i] = math.Ceil(actual)

		dealerCountry := generatorCountries[rng.Intn(len(generatorCountries))]
		destCountry := generatorCountries[rng.Intn(len(generatorCountries))]
		categorical[contracts.ColDealerCountry][i] = dealerCountry
		categorical[contracts.ColDestinationCountry][i] = destCountry
		categorical[contracts.ColProductCategory][i] = generatorCategories[rng.Intn(len(generatorCategories))]
		categorical[contracts.ColTransportMode][i] = transport.mode
		categorical[contracts.ColDealerBusinessType][i] = generatorBusinessTypes[rng.Intn(len(generatorBusinessTypes))]

		d := epoch.AddDate(0, 0, rng.Intn(365))
		dates[i] = &d
	}

	table := contracts.NewTable()
	for _, name := range numericColumns {
		table.AddNumeric(name, numeric[name])
	}
	for _, name := range contracts.CategoricalColumns {
		table.AddCategorical(name, categorical[name])
	}
	table.SetOrderDates(dates)
	return table
}

// GenerateDealers builds a seeded synthetic dealer pool for ranking.
func GenerateDealers(count int, seed int64) []contracts.DealerSummary {
	rng := rand.New(rand.NewSource(seed))

	dealers := make([]contracts.DealerSummary, count)
	for i := range dealers {
		dealers[i] = contracts.DealerSummary{
			ID:                  int64(i + 1),
			Name:                dealerName(i),
			Country:             generatorCountries[rng.Intn(len(generatorCountries))],
			BusinessType:        generatorBusinessTypes[rng.Intn(len(generatorBusinessTypes))],
			CostPerUnit:         round2(10 + rng.Float64()*490*2.5),
			QualityScore:        round3(0.6 + rng.Float64()*0.4),
			DeliveryPerformance: round3(0.6 + rng.Float64()*0.35),
			ReliabilityScore:    round3(0.6 + rng.Float64()*0.4),
			MaxSupplyCapacity:   float64(rng.Intn(49000) + 1000),
		}
	}
	return dealers
}

func dealerName(i int) string {
	return fmt.Sprintf("Dealer %02d", i+1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
