// engine/hook_logger.go
package engine

import (
	"context"
	"log"
	"time"
)

type LoggerHook struct{ L *log.Logger }

func (h LoggerHook) OnStepStart(_ context.Context, st *State) {
	h.L.Printf("step=%d msgs=%d", st.Step, len(st.History))
}

func (h LoggerHook) OnBeforeLLM(_ context.Context, st *State, msgs []ChatMessage, toolSchemas []ToolSchema) {
	h.L.Printf("📤 step=%d: %d msgs, %d tools", st.Step, len(msgs), len(toolSchemas))
}

func (h LoggerHook) OnAfterLLM(_ context.Context, st *State, r LLMResponse) {
	h.L.Printf("finish=%s tokens: prompt=%d completion=%d total=%d (cumulative=%d)",
		r.FinishReason, r.Usage.Prompt, r.Usage.Completion, r.Usage.Total, st.Totals.Total)
}

func (h LoggerHook) OnToolCall(_ context.Context, _ *State, c ToolCall) {
	h.L.Printf("tool → %s args=%v", c.Name, c.Args)
}

func (h LoggerHook) OnToolResult(_ context.Context, _ *State, c ToolCall, result string, err error) {
	if err != nil {
		h.L.Printf("tool %s error: %v", c.Name, err)
		return
	}
	resultPreview := result
	if len(resultPreview) > 100 {
		resultPreview = resultPreview[:100] + "..."
	}
	h.L.Printf("tool %s result: %s", c.Name, resultPreview)
}

func (h LoggerHook) OnRetryAttempt(_ context.Context, _ *State, attempt int, delay time.Duration, err error) {
	h.L.Printf("⚠️  retry attempt=%d delay=%s err=%v", attempt, delay, err)
}

func (h LoggerHook) OnDone(_ context.Context, st *State) {
	h.L.Printf("done: steps=%d tokens=%d", st.Step, st.Totals.Total)
}
