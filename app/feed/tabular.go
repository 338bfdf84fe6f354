package feed

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

type TabularWriter struct{}

func NewTabularWriter() *TabularWriter {
	return &TabularWriter{}
}

// Run renders the records as CSV with a header row of Columns. Records are
// padded against the column list so every row has the same width. It
// returns ErrEmpty when the result has no records.
func (w *TabularWriter) Run(result *Result) (string, error) {
	if result == nil || len(result.Records) == 0 {
		return "", ErrEmpty
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(Columns); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for _, record := range result.Records {
		if err := writer.Write(Row(record)); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.String(), nil
}

// Row defaults the record against Columns: one cell per column, blank where
// the record has no value.
func Row(record Record) []string {
	row := make([]string, len(Columns))
	for i, column := range Columns {
		row[i] = record[column]
	}
	return row
}
