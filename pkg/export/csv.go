package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// RenderCSV writes the header row followed by every table row.
func RenderCSV(table Table) ([]byte, error) {
	if err := table.check(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(table.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
