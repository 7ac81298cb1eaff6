// Package tradedata loads historical trade transactions from CSV files or
// Postgres and can generate seeded synthetic datasets for development.
package tradedata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/wonny/tradewise/backend/internal/contracts"
)

// numericColumns are the CSV columns parsed as float64, including targets.
var numericColumns = []string{
	contracts.ColQuantity,
	contracts.ColDealerCostPerUnit,
	contracts.ColLogisticsCostPerKg,
	contracts.ColImportDutyRate,
	contracts.ColExportDutyRate,
	contracts.ColExchangeRate,
	contracts.ColDealerQualityScore,
	contracts.ColDealerReliabilityScore,
	contracts.ColDealerDeliveryPerformance,
	contracts.ColAverageDeliveryDays,
	contracts.ColDelayProbability,
	contracts.ColDefectRate,
	contracts.ColMarketPrice,
	contracts.ColProfitMargin,
	contracts.ColActualDeliveryDays,
}

const dateLayout = "2006-01-02"

// LoadCSV parses a transactions CSV into a column-oriented table.
// Unknown header columns are ignored. Empty numeric cells become NaN
// (missing); empty categorical cells stay empty strings.
func LoadCSV(path string) (*contracts.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV content from a reader. 헤더 필수
func ReadCSV(r io.Reader) (*contracts.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}
	n := len(records)

	table := contracts.NewTable()

	for _, name := range numericColumns {
		idx, ok := colIdx[name]
		if !ok {
			continue
		}
		values := make([]float64, n)
		for row, record := range records {
			values[row], err = parseCell(record[idx])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row+1, name, err)
			}
		}
		if err := table.AddNumeric(name, values); err != nil {
			return nil, err
		}
	}

	for _, name := range contracts.CategoricalColumns {
		idx, ok := colIdx[name]
		if !ok {
			continue
		}
		values := make([]string, n)
		for row, record := range records {
			values[row] = record[idx]
		}
		if err := table.AddCategorical(name, values); err != nil {
			return nil, err
		}
	}

	if idx, ok := colIdx[contracts.ColOrderDate]; ok {
		dates := make([]*time.Time, n)
		for row, record := range records {
			cell := record[idx]
			if cell == "" {
				continue
			}
			d, err := time.Parse(dateLayout, cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row+1, contracts.ColOrderDate, err)
			}
			dates[row] = &d
		}
		if err := table.SetOrderDates(dates); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func parseCell(cell string) (float64, error) {
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}
