// Package insight turns natural-language questions about a dataset
// into analyst-style answers by running a tool-calling agent.
package insight

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/insightd/internal/engine"
	"github.com/ChamsBouzaiene/insightd/internal/prompts"
)

// Pipeline runs the insight agent against an uploaded dataset.
type Pipeline struct {
	llm      engine.LLMClient
	model    string
	tools    engine.ToolRegistry
	hooks    engine.Hooks
	maxSteps int
}

// New creates an insight pipeline. The tool registry must expose the
// dataset EDA and code-execution tools.
func New(llm engine.LLMClient, model string, tools engine.ToolRegistry, hooks engine.Hooks, maxSteps int) *Pipeline {
	return &Pipeline{
		llm:      llm,
		model:    model,
		tools:    tools,
		hooks:    hooks,
		maxSteps: maxSteps,
	}
}

// Generate answers a question about the dataset at filePath.
// Each call builds a fresh agent so questions never share loop state.
func (p *Pipeline) Generate(ctx context.Context, query, filePath string) (string, error) {
	builder := engine.NewAgentBuilder().
		WithLLM(p.llm).
		WithModel(p.model).
		WithMaxSteps(p.maxSteps).
		WithToolRegistry(p.tools).
		WithHooks(p.hooks...)

	builder, err := builder.WithPrompt("insight", prompts.PromptV1)
	if err != nil {
		return "", fmt.Errorf("failed to resolve insight prompt: %w", err)
	}

	agent, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build insight agent: %w", err)
	}

	task := fmt.Sprintf("Dataset file: %s\n\nQuestion: %s", filePath, query)

	answer, err := agent.Run(ctx, task)
	if err != nil {
		return "", fmt.Errorf("insight generation failed: %w", err)
	}

	return answer, nil
}
