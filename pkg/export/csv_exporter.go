package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM is prepended to CSV output so spreadsheet tools detect the
// encoding; without it the Persian letter-grade and semester cells turn to
// mojibake in Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset defines tabular export content shared by the CSV and PDF renderers.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders a Dataset as BOM-prefixed UTF-8 CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render encodes the dataset, one row per archived thesis, cells in header
// order. Missing cells render empty.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv export requires at least one header")
	}

	buf := &bytes.Buffer{}
	buf.Write(utf8BOM)

	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("encode header row: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("encode result row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv output: %w", err)
	}
	return buf.Bytes(), nil
}
