package tradedata

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wonny/tradewise/backend/internal/contracts"
)

// WriteCSV saves a table to disk in the layout LoadCSV reads back.
// Missing numeric cells become empty strings.
func WriteCSV(path string, table *contracts.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	var header []string
	var numericPresent []string
	for _, name := range numericColumns {
		if table.HasColumn(name) {
			numericPresent = append(numericPresent, name)
			header = append(header, name)
		}
	}
	var categoricalPresent []string
	for _, name := range contracts.CategoricalColumns {
		if table.HasColumn(name) {
			categoricalPresent = append(categoricalPresent, name)
			header = append(header, name)
		}
	}
	scenarios := table.Scenarios()
	header = append(header, contracts.ColOrderDate)

	if err := w.Write(header); err != nil {
		return err
	}

	n := table.Rows()
	record := make([]string, 0, len(header))
	for i := 0; i < n; i++ {
		record = record[:0]
		for _, name := range numericPresent {
			col, _ := table.NumericColumn(name)
			record = append(record, formatCell(col[i]))
		}
		for _, name := range categoricalPresent {
			col, _ := table.CategoricalColumn(name)
			record = append(record, col[i])
		}
		if d := scenarios[i].OrderDate; d != nil {
			record = append(record, d.Format(dateLayout))
		} else {
			record = append(record, "")
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
