package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV serializes the dataset back to comma-separated text: the header row
// followed by one line per data row. Null cells become empty fields. Original
// formatting is not preserved, only structure and values.
func WriteCSV(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(ds.Columns))
	for i, row := range ds.Data {
		for j := range rec {
			rec[j] = ""
			if j < len(row) {
				rec[j] = row[j].String()
			}
		}
		if len(rec) == 1 && rec[0] == "" {
			// A lone empty field would be a blank line, which readers skip.
			cw.Flush()
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
			continue
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
