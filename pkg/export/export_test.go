package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Title", "Author"},
		Rows: []map[string]string{
			{"Title": "Graph Partitioning", "Author": "Sara Ahmadi"},
			{"Title": "Compiler Optimizations", "Author": "Reza Moradi"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Equal(t, "Title,Author\nGraph Partitioning,Sara Ahmadi\nCompiler Optimizations,Reza Moradi\n", string(data[len(utf8BOM):]))
}

func TestCSVExporterKeepsPersianCellsReadable(t *testing.T) {
	data, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Letter", "Semester"},
		Rows: []map[string]string{
			{"Letter": "الف", "Semester": "2023-2024 (نیمسال دوم)"},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM), "spreadsheet tools need the BOM to pick UTF-8")
	assert.Contains(t, string(data), "الف")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(sampleDataset(), "Defended Theses")
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}
