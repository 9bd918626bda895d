package visualization

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Chart specifications are validated structurally only; the prompt's
// rules are the sole enforcement of chart-option content quality.
const singleChartSchema = `{
	"type": "object",
	"properties": {
		"visualizationType": {"type": "string"},
		"meta": {"type": "object"},
		"echartsOption": {"type": "object"}
	},
	"required": ["visualizationType", "echartsOption"]
}`

const dashboardSchema = `{
	"type": "object",
	"properties": {
		"visualizationType": {"type": "string", "enum": ["dashboard"]},
		"layouts": {
			"type": "array",
			"minItems": 6,
			"maxItems": 6,
			"items": {"type": "object"}
		}
	},
	"required": ["visualizationType", "layouts"]
}`

// ValidateSpec checks that a cleaned payload has the expected chart
// specification shape for the given mode.
func ValidateSpec(payload json.RawMessage, dashboard bool) error {
	schema := singleChartSchema
	if dashboard {
		schema = dashboardSchema
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("chart specification invalid: %v", msgs)
	}

	return nil
}
