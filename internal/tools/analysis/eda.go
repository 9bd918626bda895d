// Package analysis provides the engine tools that expose the dataset
// session and the code runner to generation-engine sessions.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ChamsBouzaiene/insightd/internal/dataset"
	"github.com/ChamsBouzaiene/insightd/internal/engine"
)

// edaImpl loads the dataset and returns its summary as indented JSON.
func edaImpl(session *dataset.Session, filepath string) (string, error) {
	summary, err := session.Load(filepath)
	if err != nil {
		// Load faults are reported as tool text so the model can see
		// exactly what went wrong and tell the user.
		return fmt.Sprintf("Error loading dataset: %v", err), nil
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}
	return string(data), nil
}

// NewEDATool creates the get_data_eda engine tool. It loads a CSV or
// Excel file into the session and returns comprehensive EDA information:
// shape, columns, data types, missing values, basic statistics, sample
// rows, and memory usage.
func NewEDATool(session *dataset.Session) engine.Tool {
	return engine.Tool{
		Name: "get_data_eda",
		Description: `Load a CSV or Excel file and return comprehensive EDA information including:
- Dataset shape, columns, data types
- Missing values summary
- Basic statistics
- Sample data

Call this before executing any analysis code so you know the dataset structure.`,
		SchemaJSON: `{"type":"object","properties":{"filepath":{"type":"string","description":"Path to the dataset file (.csv, .xlsx or .xls)"}},"required":["filepath"]}`,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			filepath, ok := args["filepath"].(string)
			if !ok || filepath == "" {
				return "", fmt.Errorf("'filepath' must be provided as a non-empty string")
			}
			return edaImpl(session, filepath)
		},
		Retryable: true, // Loading is idempotent
	}
}
