package prompts

import (
	"strings"
	"testing"
)

func TestBuildVisualizationPromptVariants(t *testing.T) {
	tests := []struct {
		name      string
		chartType string
		want      string
		dontWant  string
	}{
		{
			name:      "dashboard selects six-chart variant",
			chartType: "dashboard",
			want:      "Generate 6 different visualization plots",
			dontWant:  "Generate a single",
		},
		{
			name:      "specific kind names the chart",
			chartType: "bar",
			want:      "Generate a single bar visualization",
			dontWant:  "Generate 6 different",
		},
		{
			name:      "auto falls back to best-fit",
			chartType: "auto",
			want:      "Generate a single best-fit visualization",
			dontWant:  "Generate 6 different",
		},
		{
			name:      "empty falls back to best-fit",
			chartType: "",
			want:      "Generate a single best-fit visualization",
			dontWant:  "Generate 6 different",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildVisualizationPrompt(tt.chartType)
			if p.ID != "visualization" || p.Version != PromptV1 {
				t.Errorf("prompt metadata = %s/%s", p.ID, p.Version)
			}
			if !strings.Contains(p.Content, tt.want) {
				t.Errorf("prompt missing %q", tt.want)
			}
			if strings.Contains(p.Content, tt.dontWant) {
				t.Errorf("prompt unexpectedly contains %q", tt.dontWant)
			}
		})
	}
}

func TestRegistryVersionLookup(t *testing.T) {
	r := NewPromptRegistry()
	r.Register(BuildVisualizationPrompt("bar"))

	p, err := r.Get("visualization", PromptV1)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if p.ID != "visualization" {
		t.Errorf("ID = %q", p.ID)
	}

	if _, err := r.Get("visualization", PromptVersion("9.9.9")); err == nil {
		t.Error("Get() with unknown version should fail")
	}
	if _, err := r.Get("nope", PromptV1); err == nil {
		t.Error("Get() with unknown id should fail")
	}
}
