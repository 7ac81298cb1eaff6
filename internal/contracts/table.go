package contracts

import (
	"fmt"
	"math"
	"time"
)

// Table is a column-oriented tabular input consumed by the trainer.
// Cells are addressed by column name; the physical order in which columns were
// added carries no meaning. NaN marks a missing numeric cell and the empty
// string marks a missing categorical cell.
type Table struct {
	rows        int
	numeric     map[string][]float64
	categorical map[string][]string
	orderDates  []*time.Time
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		numeric:     make(map[string][]float64),
		categorical: make(map[string][]string),
	}
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return t.rows
}

// AddNumeric adds a numeric column. Every column must have the same length.
func (t *Table) AddNumeric(name string, values []float64) error {
	if err := t.checkLen(name, len(values)); err != nil {
		return err
	}
	t.numeric[name] = values
	return nil
}

// AddCategorical adds a categorical column.
func (t *Table) AddCategorical(name string, values []string) error {
	if err := t.checkLen(name, len(values)); err != nil {
		return err
	}
	t.categorical[name] = values
	return nil
}

// SetOrderDates attaches the optional order date column.
func (t *Table) SetOrderDates(dates []*time.Time) error {
	if err := t.checkLen(ColOrderDate, len(dates)); err != nil {
		return err
	}
	t.orderDates = dates
	return nil
}

func (t *Table) checkLen(name string, n int) error {
	if t.rows == 0 && len(t.numeric) == 0 && len(t.categorical) == 0 && t.orderDates == nil {
		t.rows = n
		return nil
	}
	if n != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", name, n, t.rows)
	}
	return nil
}

// HasColumn reports whether a column of either kind exists.
func (t *Table) HasColumn(name string) bool {
	if _, ok := t.numeric[name]; ok {
		return true
	}
	_, ok := t.categorical[name]
	return ok
}

// NumericColumn returns a numeric column by name.
func (t *Table) NumericColumn(name string) ([]float64, bool) {
	col, ok := t.numeric[name]
	return col, ok
}

// CategoricalColumn returns a categorical column by name.
func (t *Table) CategoricalColumn(name string) ([]string, bool) {
	col, ok := t.categorical[name]
	return col, ok
}

// Scenarios converts all rows into RawScenario values.
// 알 수 없는 컬럼은 무시됨 (타깃 컬럼 포함)
func (t *Table) Scenarios() []RawScenario {
	out := make([]RawScenario, t.rows)
	for name, col := range t.numeric {
		for i := range col {
			if math.IsNaN(col[i]) {
				continue
			}
			setNumericField(&out[i], name, col[i])
		}
	}
	for name, col := range t.categorical {
		for i := range col {
			setCategoricalField(&out[i], name, col[i])
		}
	}
	if t.orderDates != nil {
		for i, d := range t.orderDates {
			out[i].OrderDate = d
		}
	}
	return out
}

func setNumericField(s *RawScenario, name string, v float64) {
	val := v
	switch name {
	case ColQuantity:
		s.Quantity = &val
	case ColDealerCostPerUnit:
		s.DealerCostPerUnit = &val
	case ColLogisticsCostPerKg:
		s.LogisticsCostPerKg = &val
	case ColImportDutyRate:
		s.ImportDutyRate = &val
	case ColExportDutyRate:
		s.ExportDutyRate = &val
	case ColExchangeRate:
		s.ExchangeRate = &val
	case ColDealerQualityScore:
		s.DealerQualityScore = &val
	case ColDealerReliabilityScore:
		s.DealerReliabilityScore = &val
	case ColDealerDeliveryPerformance:
		s.DealerDeliveryPerformance = &val
	case ColAverageDeliveryDays:
		s.AverageDeliveryDays = &val
	case ColDelayProbability:
		s.DelayProbability = &val
	case ColDefectRate:
		s.DefectRate = &val
	case ColMarketPrice:
		s.MarketPrice = &val
	}
}

func setCategoricalField(s *RawScenario, name, v string) {
	switch name {
	case ColDealerCountry:
		s.DealerCountry = v
	case ColDestinationCountry:
		s.DestinationCountry = v
	case ColProductCategory:
		s.ProductCategory = v
	case ColTransportMode:
		s.TransportMode = v
	case ColDealerBusinessType:
		s.DealerBusinessType = v
	}
}
