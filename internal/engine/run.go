package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Run executes the tool-calling loop until the model produces a final
// answer, max steps are reached, or an error occurs.
//
// Step counting: steps increment only on successful completion of a full
// reason/act cycle. Retries are handled inside each step.
func Run(ctx context.Context, llm LLMClient, reg ToolRegistry, st *State, hooks Hooks, opts ChatOptions) error {
	st.Step = 0

	for st.Step < st.MaxSteps && !st.Done {
		select {
		case <-ctx.Done():
			return fmt.Errorf("execution cancelled: %w", ctx.Err())
		default:
		}

		if err := stepOnce(ctx, llm, reg, st, hooks, opts); err != nil {
			return err
		}
		st.Step++
	}

	if !st.Done {
		return fmt.Errorf("max steps (%d) reached without a final answer", st.MaxSteps)
	}
	hooks.OnDone(ctx, st)
	return nil
}

// stepOnce performs one LLM call and executes any requested tool calls.
func stepOnce(ctx context.Context, llm LLMClient, reg ToolRegistry, st *State, hooks Hooks, opts ChatOptions) error {
	hooks.OnStepStart(ctx, st)

	retryConfig := opts.RetryConfig
	if retryConfig == nil {
		defaultConfig := DefaultRetryConfig()
		retryConfig = &defaultConfig
	}

	msgs := append([]ChatMessage(nil), st.History...)
	schemas := reg.Schemas()
	hooks.OnBeforeLLM(ctx, st, msgs, schemas)

	resp, err := retryLLMCall(ctx, retryConfig.LLMPolicy, func() (LLMResponse, error) {
		return llm.Chat(ctx, st.Model, msgs, schemas, opts)
	}, func(attempt int, delay time.Duration, retryErr error) {
		hooks.OnRetryAttempt(ctx, st, attempt, delay, retryErr)
	})
	if err != nil {
		return err
	}

	st.Totals.Add(resp.Usage)
	hooks.OnAfterLLM(ctx, st, resp)

	// Record the assistant turn, including any tool calls it made, so
	// providers can reconstruct the exchange on the next call.
	assistant := resp.Assistant
	assistant.Role = RoleAssistant
	assistant.ToolCalls = resp.ToolCalls
	st.Append(assistant)

	if len(resp.ToolCalls) == 0 {
		st.Done = true
		st.FinalText = assistant.Content
		return nil
	}

	results := executeToolCalls(ctx, resp.ToolCalls, reg, retryConfig, hooks, st)
	for _, res := range results {
		content := res.content
		if res.err != nil {
			// Tool faults are reported back to the model as textual
			// results so it can correct itself on the next step.
			content = fmt.Sprintf("Error: %v", res.err)
		}
		st.Append(ChatMessage{
			Role:    RoleTool,
			Content: content,
			Name:    res.call.ID,
		})
	}
	return nil
}

// toolResult represents the result of executing a tool call.
type toolResult struct {
	idx     int
	content string
	err     error
	call    ToolCall
}

// executeToolCalls runs the requested tool calls concurrently and returns
// results in request order.
func executeToolCalls(ctx context.Context, calls []ToolCall, reg ToolRegistry, retryConfig *RetryConfig, hooks Hooks, st *State) []toolResult {
	if len(calls) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	results := make([]toolResult, len(calls))

	for i, call := range calls {
		wg.Add(1)
		go func(i int, c ToolCall) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[i] = toolResult{idx: i, err: ctx.Err(), call: c}
				return
			default:
			}

			hooks.OnToolCall(ctx, st, c)
			res, err := retryToolCall(ctx, retryConfig.ToolPolicy, c, reg, func(attempt int, delay time.Duration, retryErr error) {
				hooks.OnRetryAttempt(ctx, st, attempt, delay, retryErr)
			})
			hooks.OnToolResult(ctx, st, c, res, err)
			results[i] = toolResult{idx: i, content: res, err: err, call: c}
		}(i, call)
	}

	wg.Wait()
	return results
}
