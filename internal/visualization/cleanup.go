package visualization

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseErrorPayload is returned whenever raw engine output cannot be
// recovered into a structured chart specification.
var ParseErrorPayload = json.RawMessage(`{"error": "Could not parse visualization"}`)

// Clean extracts the JSON object from raw engine output. Models often
// wrap the payload in code fences or surround it with prose; everything
// outside the outermost brace pair is discarded.
func Clean(raw string) (json.RawMessage, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "json\n")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in output")
	}
	s = s[start : end+1]

	var probe map[string]any
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil, fmt.Errorf("invalid JSON in output: %w", err)
	}

	return json.RawMessage(s), nil
}
