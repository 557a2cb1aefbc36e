package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/avinse/reportage/model"
)

// tableFileName names a detected table's CSV after its page and its
// position on that page, for example table_p12_1.csv.
func tableFileName(page, seq int) string {
	return fmt.Sprintf("table_p%d_%d.csv", page, seq)
}

// writeTableCSV writes one detected table as CSV, one record per grid
// row.
func (e *Exporter) writeTableCSV(name string, table model.Table) error {
	f, err := os.Create(e.path(name))
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}
