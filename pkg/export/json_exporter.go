package export

import (
	"encoding/json"
	"fmt"
)

// JSONExporter renders values as indented JSON documents for download.
type JSONExporter struct {
	indent string
}

// NewJSONExporter builds a JSON exporter using two-space indentation.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{indent: "  "}
}

// Render marshals v with indentation.
func (e *JSONExporter) Render(v interface{}) ([]byte, error) {
	payload, err := json.MarshalIndent(v, "", e.indent)
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return payload, nil
}
