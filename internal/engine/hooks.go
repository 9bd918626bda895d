package engine

import (
	"context"
	"time"
)

// Hook receives engine lifecycle events for observability.
type Hook interface {
	OnStepStart(ctx context.Context, st *State)
	OnBeforeLLM(ctx context.Context, st *State, messages []ChatMessage, toolSchemas []ToolSchema)
	OnAfterLLM(ctx context.Context, st *State, resp LLMResponse)
	OnToolCall(ctx context.Context, st *State, call ToolCall)
	OnToolResult(ctx context.Context, st *State, call ToolCall, result string, err error)
	OnRetryAttempt(ctx context.Context, st *State, attempt int, delay time.Duration, err error)
	OnDone(ctx context.Context, st *State)
}

// NopHook lets you implement only the hooks you need.
type NopHook struct{}

func (NopHook) OnStepStart(context.Context, *State)                              {}
func (NopHook) OnBeforeLLM(context.Context, *State, []ChatMessage, []ToolSchema) {}
func (NopHook) OnAfterLLM(context.Context, *State, LLMResponse)                  {}
func (NopHook) OnToolCall(context.Context, *State, ToolCall)                     {}
func (NopHook) OnToolResult(context.Context, *State, ToolCall, string, error)    {}
func (NopHook) OnRetryAttempt(context.Context, *State, int, time.Duration, error) {
}
func (NopHook) OnDone(context.Context, *State) {}

// Hooks fans events out to multiple hooks.
type Hooks []Hook

func (h Hooks) OnStepStart(ctx context.Context, st *State) {
	for _, hook := range h {
		hook.OnStepStart(ctx, st)
	}
}

func (h Hooks) OnBeforeLLM(ctx context.Context, st *State, messages []ChatMessage, toolSchemas []ToolSchema) {
	for _, hook := range h {
		hook.OnBeforeLLM(ctx, st, messages, toolSchemas)
	}
}

func (h Hooks) OnAfterLLM(ctx context.Context, st *State, resp LLMResponse) {
	for _, hook := range h {
		hook.OnAfterLLM(ctx, st, resp)
	}
}

func (h Hooks) OnToolCall(ctx context.Context, st *State, call ToolCall) {
	for _, hook := range h {
		hook.OnToolCall(ctx, st, call)
	}
}

func (h Hooks) OnToolResult(ctx context.Context, st *State, call ToolCall, result string, err error) {
	for _, hook := range h {
		hook.OnToolResult(ctx, st, call, result, err)
	}
}

func (h Hooks) OnRetryAttempt(ctx context.Context, st *State, attempt int, delay time.Duration, err error) {
	for _, hook := range h {
		hook.OnRetryAttempt(ctx, st, attempt, delay, err)
	}
}

func (h Hooks) OnDone(ctx context.Context, st *State) {
	for _, hook := range h {
		hook.OnDone(ctx, st)
	}
}
