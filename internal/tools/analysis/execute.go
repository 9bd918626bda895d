package analysis

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/insightd/internal/engine"
	"github.com/ChamsBouzaiene/insightd/internal/runner"
)

// NewExecuteTool creates the execute_analysis_code engine tool. The
// fragment runs against the currently loaded table; the runner converts
// every fault into a textual result so the model can self-correct.
func NewExecuteTool(r *runner.Runner) engine.Tool {
	return engine.Tool{
		Name: "execute_analysis_code",
		Description: `Execute a short Go analysis snippet against the loaded dataset.
The 'df' variable holds the loaded table, 'toJSON' encodes values to JSON.

IMPORTANT: Always store your final result in a variable called 'answer' at the end of your code.

Available table operations on df:
- df.Sum("col"), df.Mean("col"), df.Min("col"), df.Max("col"), df.Count("col")
- df.Numbers("col"), df.Strings("col"), df.Columns(), df.NumRows()
- df.Filter(func(r Row) bool { ... }), r.Num("col"), r.Str("col"), r.IsMissing("col")
- df.GroupBySum("by", "value"), df.GroupByMean("by", "value"), df.GroupByCount("by")
- df.SortBy("col", true /* descending */), df.Head(5), df.Select("a", "b")
- df.Rows() for row maps

Examples:
1. Aggregation: answer = df.GroupBySum("Brand", "Revenue").SortBy("Revenue", true).Head(5)
2. Calculation: answer = df.Sum("Revenue")
3. Filtering: answer = df.Filter(func(r Row) bool { return r.Str("Category") == "Electronics" })

The result is returned as JSON for tables, maps and slices, and as plain text otherwise.`,
		SchemaJSON: `{"type":"object","properties":{"code":{"type":"string","description":"Go analysis snippet. Must end by assigning the result to 'answer'."}},"required":["code"]}`,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			code, ok := args["code"].(string)
			if !ok || code == "" {
				return "", fmt.Errorf("'code' must be provided as a non-empty string")
			}
			return r.Run(ctx, code), nil
		},
		Retryable: false, // Fragments may not be idempotent
	}
}
