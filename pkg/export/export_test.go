package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Name", "Amount Paid"},
		Rows: []map[string]string{
			{"Name": "Jane Doe", "Amount Paid": "50000"},
			{"Name": "John Roe", "Amount Paid": "0"},
		},
		Footer: map[string]string{"Name": "Total", "Amount Paid": "50000"},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Name,Amount Paid", lines[0])
	assert.Equal(t, "Jane Doe,50000", lines[1])
	assert.Equal(t, "Total,50000", lines[3])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Fee Report", "Term 1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestJSONExporterIndentsTwoSpaces(t *testing.T) {
	out, err := NewJSONExporter().Render([]map[string]int{{"id": 1}})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": 1\n  }\n]", string(out))
}
