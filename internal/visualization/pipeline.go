// Package visualization turns an answered question into an ECharts
// chart specification by running a second tool-calling agent and
// recovering structured JSON from its output.
package visualization

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ChamsBouzaiene/insightd/internal/engine"
	"github.com/ChamsBouzaiene/insightd/internal/prompts"
)

// Pipeline runs the visualization agent.
type Pipeline struct {
	llm      engine.LLMClient
	model    string
	tools    engine.ToolRegistry
	hooks    engine.Hooks
	maxSteps int
	logger   *log.Logger
}

// New creates a visualization pipeline sharing the analysis tools with
// the insight pipeline.
func New(llm engine.LLMClient, model string, tools engine.ToolRegistry, hooks engine.Hooks, maxSteps int, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		llm:      llm,
		model:    model,
		tools:    tools,
		hooks:    hooks,
		maxSteps: maxSteps,
		logger:   logger,
	}
}

// Generate produces a chart specification for the answered question.
// Parse and shape failures are downgraded to the fixed error payload;
// only engine faults are returned as errors so the caller can decide
// how to degrade.
func (p *Pipeline) Generate(ctx context.Context, query, insightText, filePath, chartType string) (json.RawMessage, error) {
	agent, err := engine.NewAgentBuilder().
		WithLLM(p.llm).
		WithModel(p.model).
		WithMaxSteps(p.maxSteps).
		WithToolRegistry(p.tools).
		WithHooks(p.hooks...).
		WithPromptContent(prompts.BuildVisualizationPrompt(chartType)).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build visualization agent: %w", err)
	}

	task := fmt.Sprintf("Dataset file: %s\n\nUser query: %s\n\nInsight already produced:\n%s", filePath, query, insightText)

	raw, err := agent.Run(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("visualization generation failed: %w", err)
	}

	payload, err := Clean(raw)
	if err != nil {
		p.logger.Printf("⚠️ visualization parse failed: %v", err)
		return ParseErrorPayload, nil
	}

	if err := ValidateSpec(payload, chartType == "dashboard"); err != nil {
		p.logger.Printf("⚠️ visualization shape invalid: %v", err)
		return ParseErrorPayload, nil
	}

	return payload, nil
}
