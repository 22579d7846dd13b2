package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Delimiter separates report columns.
const Delimiter = ';'

// Encode writes a header line followed by one line per row, columns in headers order.
func Encode(w io.Writer, headers []string, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(headers))

	for i, row := range rows {
		for j, h := range headers {
			record[j] = row[h]
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
