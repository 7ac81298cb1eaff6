package tradedata

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tradewise/backend/internal/contracts"
)

// Repository 거래 트랜잭션 저장소 (trade.transactions 테이블)
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository 새 저장소 생성
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LoadTable 전체 학습 데이터 조회
// NULL numeric cells come back as missing (NaN) so the trainer can impute.
func (r *Repository) LoadTable(ctx context.Context) (*contracts.Table, error) {
	query := `
		SELECT quantity, dealer_cost_per_unit, logistics_cost_per_kg,
			   import_duty_rate, export_duty_rate, exchange_rate,
			   dealer_quality_score, dealer_reliability_score, dealer_delivery_performance,
			   average_delivery_days, delay_probability, defect_rate, market_price,
			   dealer_country, destination_country, product_category,
			   transport_mode, dealer_business_type,
			   order_date, profit_margin_percentage, actual_delivery_days
		FROM trade.transactions
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	numeric := make(map[string][]float64, len(numericColumns))
	categorical := make(map[string][]string, len(contracts.CategoricalColumns))
	var dates []*time.Time

	for rows.Next() {
		nums := make([]*float64, 13)
		cats := make([]*string, 5)
		var orderDate *time.Time
		var profit, actualDays *float64

		dest := make([]interface{}, 0, 21)
		for i := range nums {
			dest = append(dest, &nums[i])
		}
		for i := range cats {
			dest = append(dest, &cats[i])
		}
		dest = append(dest, &orderDate, &profit, &actualDays)

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		rawCols := []string{
			contracts.ColQuantity, contracts.ColDealerCostPerUnit, contracts.ColLogisticsCostPerKg,
			contracts.ColImportDutyRate, contracts.ColExportDutyRate, contracts.ColExchangeRate,
			contracts.ColDealerQualityScore, contracts.ColDealerReliabilityScore, contracts.ColDealerDeliveryPerformance,
			contracts.ColAverageDeliveryDays, contracts.ColDelayProbability, contracts.ColDefectRate,
			contracts.ColMarketPrice,
		}
		for i, name := range rawCols {
			numeric[name] = append(numeric[name], deref(nums[i]))
		}
		numeric[contracts.ColProfitMargin] = append(numeric[contracts.ColProfitMargin], deref(profit))
		numeric[contracts.ColActualDeliveryDays] = append(numeric[contracts.ColActualDeliveryDays], deref(actualDays))

		for i, name := range contracts.CategoricalColumns {
			if cats[i] != nil {
				categorical[name] = append(categorical[name], *cats[i])
			} else {
				categorical[name] = append(categorical[name], "")
			}
		}
		dates = append(dates, orderDate)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	table := contracts.NewTable()
	for name, values := range numeric {
		if err := table.AddNumeric(name, values); err != nil {
			return nil, err
		}
	}
	for name, values := range categorical {
		if err := table.AddCategorical(name, values); err != nil {
			return nil, err
		}
	}
	if err := table.SetOrderDates(dates); err != nil {
		return nil, err
	}
	return table, nil
}

// InsertScenarios 트랜잭션 일괄 저장 (seed 용)
func (r *Repository) InsertScenarios(ctx context.Context, table *contracts.Table) error {
	n := table.Rows()
	if n == 0 {
		return nil
	}

	query := `
		INSERT INTO trade.transactions
			(quantity, dealer_cost_per_unit, logistics_cost_per_kg,
			 import_duty_rate, export_duty_rate, exchange_rate,
			 dealer_quality_score, dealer_reliability_score, dealer_delivery_performance,
			 average_delivery_days, delay_probability, defect_rate, market_price,
			 dealer_country, destination_country, product_category,
			 transport_mode, dealer_business_type,
			 order_date, profit_margin_percentage, actual_delivery_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
				$14, $15, $16, $17, $18, $19, $20, $21)`

	scenarios := table.Scenarios()
	profit, _ := table.NumericColumn(contracts.ColProfitMargin)
	actualDays, _ := table.NumericColumn(contracts.ColActualDeliveryDays)

	batch := &pgx.Batch{}
	for i, s := range scenarios {
		batch.Queue(query,
			s.Quantity, s.DealerCostPerUnit, s.LogisticsCostPerKg,
			s.ImportDutyRate, s.ExportDutyRate, s.ExchangeRate,
			s.DealerQualityScore, s.DealerReliabilityScore, s.DealerDeliveryPerformance,
			s.AverageDeliveryDays, s.DelayProbability, s.DefectRate, s.MarketPrice,
			s.DealerCountry, s.DestinationCountry, s.ProductCategory,
			s.TransportMode, s.DealerBusinessType,
			s.OrderDate, columnValue(profit, i), columnValue(actualDays, i),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// DealerRepository 딜러 저장소 (trade.dealers 테이블)
type DealerRepository struct {
	pool *pgxpool.Pool
}

// NewDealerRepository 새 저장소 생성
func NewDealerRepository(pool *pgxpool.Pool) *DealerRepository {
	return &DealerRepository{pool: pool}
}

// List 랭킹 대상 딜러 전체 조회
func (r *DealerRepository) List(ctx context.Context) ([]contracts.DealerSummary, error) {
	query := `
		SELECT id, name, country, business_type,
			   cost_per_unit, quality_score, delivery_performance,
			   reliability_score, max_supply_capacity
		FROM trade.dealers
		WHERE is_active
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dealers []contracts.DealerSummary
	for rows.Next() {
		var d contracts.DealerSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.Country, &d.BusinessType,
			&d.CostPerUnit, &d.QualityScore, &d.DeliveryPerformance,
			&d.ReliabilityScore, &d.MaxSupplyCapacity); err != nil {
			return nil, err
		}
		dealers = append(dealers, d)
	}
	return dealers, rows.Err()
}

// Upsert 딜러 일괄 저장 (seed 용)
func (r *DealerRepository) Upsert(ctx context.Context, dealers []contracts.DealerSummary) error {
	if len(dealers) == 0 {
		return nil
	}

	query := `
		INSERT INTO trade.dealers
			(id, name, country, business_type, cost_per_unit,
			 quality_score, delivery_performance, reliability_score,
			 max_supply_capacity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			country = EXCLUDED.country,
			business_type = EXCLUDED.business_type,
			cost_per_unit = EXCLUDED.cost_per_unit,
			quality_score = EXCLUDED.quality_score,
			delivery_performance = EXCLUDED.delivery_performance,
			reliability_score = EXCLUDED.reliability_score,
			max_supply_capacity = EXCLUDED.max_supply_capacity,
			is_active = TRUE`

	batch := &pgx.Batch{}
	for _, d := range dealers {
		batch.Queue(query, d.ID, d.Name, d.Country, d.BusinessType,
			d.CostPerUnit, d.QualityScore, d.DeliveryPerformance,
			d.ReliabilityScore, d.MaxSupplyCapacity)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range dealers {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func columnValue(col []float64, i int) *float64 {
	if col == nil || math.IsNaN(col[i]) {
		return nil
	}
	return &col[i]
}
