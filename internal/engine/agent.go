package engine

import (
	"context"

	"github.com/ChamsBouzaiene/insightd/internal/prompts"
)

// Agent represents an agent instance that can run one bounded session:
// prompt submission through final text.
type Agent struct {
	llm       LLMClient
	tools     ToolRegistry
	config    AgentConfig
	hooks     Hooks
	prompt    *prompts.Prompt
	lastState *State
}

// Run executes a single user message through the agent and returns the
// final assistant text. The model may invoke tools zero or more times
// before producing its answer.
func (a *Agent) Run(ctx context.Context, userMessage string) (string, error) {
	st := &State{
		History: []ChatMessage{
			{Role: RoleSystem, Content: a.prompt.Content},
			{Role: RoleUser, Content: userMessage},
		},
		Model:    a.config.Model,
		MaxSteps: a.config.MaxSteps,
	}
	a.lastState = st

	maxOutputTokens := a.config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = 8192
	}
	opts := ChatOptions{
		Temperature:     a.config.Temperature,
		MaxOutputTokens: maxOutputTokens,
		RetryConfig:     a.config.RetryConfig,
	}

	if err := Run(ctx, a.llm, a.tools, st, a.hooks, opts); err != nil {
		return "", err
	}
	return st.FinalText, nil
}

// LastState returns the most recent conversation state after Run completes.
// Callers should treat the returned state as read-only.
func (a *Agent) LastState() *State {
	return a.lastState
}
