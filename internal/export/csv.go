// Package export renders the expense collection as CSV for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"outlay/internal/core"
)

var header = []string{"id", "item", "amount", "category", "date", "created_at"}

// WriteCSV writes the collection to w, most recent date first. The input
// slice is not modified; ordering happens on a copy.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	sorted := make([]core.Expense, len(expenses))
	copy(sorted, expenses)
	core.SortForExport(sorted)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range sorted {
		row := []string{
			e.ID,
			e.Item,
			core.FormatAmount(e.Amount),
			e.Category,
			e.Date,
			strconv.FormatInt(e.CreatedAt, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
