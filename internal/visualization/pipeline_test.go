package visualization

import (
	"context"
	"testing"

	"github.com/ChamsBouzaiene/insightd/internal/engine"
)

// fixedLLM always answers with the same text and no tool calls.
type fixedLLM struct {
	text string
}

func (f *fixedLLM) Chat(ctx context.Context, model string, messages []engine.ChatMessage, toolSchemas []engine.ToolSchema, opts engine.ChatOptions) (engine.LLMResponse, error) {
	return engine.LLMResponse{
		Assistant:    engine.ChatMessage{Role: engine.RoleAssistant, Content: f.text},
		FinishReason: "stop",
	}, nil
}

func TestPipelineGenerateRecoversFencedPayload(t *testing.T) {
	llm := &fixedLLM{text: "Here you go:\n```json\n{\"visualizationType\":\"bar\",\"meta\":{},\"echartsOption\":{\"series\":[]}}\n```"}
	p := New(llm, "test-model", make(engine.ToolRegistry), nil, 5, nil)

	got, err := p.Generate(context.Background(), "revenue by brand", "some insight", "data.csv", "bar")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	want := `{"visualizationType":"bar","meta":{},"echartsOption":{"series":[]}}`
	if string(got) != want {
		t.Errorf("Generate() = %s, want %s", got, want)
	}
}

func TestPipelineGenerateDowngradesParseFailure(t *testing.T) {
	llm := &fixedLLM{text: "I am unable to produce a chart for this data."}
	p := New(llm, "test-model", make(engine.ToolRegistry), nil, 5, nil)

	got, err := p.Generate(context.Background(), "revenue by brand", "some insight", "data.csv", "bar")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if string(got) != string(ParseErrorPayload) {
		t.Errorf("Generate() = %s, want parse-error payload", got)
	}
}

func TestPipelineGenerateDowngradesBadShape(t *testing.T) {
	// Parses as JSON but has no echartsOption, so the shape check fails.
	llm := &fixedLLM{text: `{"visualizationType":"bar"}`}
	p := New(llm, "test-model", make(engine.ToolRegistry), nil, 5, nil)

	got, err := p.Generate(context.Background(), "revenue by brand", "some insight", "data.csv", "bar")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if string(got) != string(ParseErrorPayload) {
		t.Errorf("Generate() = %s, want parse-error payload", got)
	}
}
