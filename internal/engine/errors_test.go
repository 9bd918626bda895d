package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyLLMError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RetryClass
	}{
		{"nil", nil, RetryClassNonRetryable},
		{"rate limit", errors.New("429 too many requests"), RetryClassRetryable},
		{"server error", errors.New("503 service unavailable"), RetryClassRetryable},
		{"timeout", errors.New("request timeout"), RetryClassRetryable},
		{"connection reset", errors.New("connection reset by peer"), RetryClassRetryable},
		{"auth", errors.New("401 unauthorized"), RetryClassNonRetryable},
		{"invalid key", errors.New("invalid api key"), RetryClassNonRetryable},
		{"bad request", errors.New("400 bad request"), RetryClassNonRetryable},
		{"unknown", errors.New("something odd happened"), RetryClassMaybe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLLMError(tt.err); got != tt.want {
				t.Errorf("ClassifyLLMError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyLLMErrorRespectsEngineError(t *testing.T) {
	// An already-classified error wins over string matching.
	err := NewEngineError(errors.New("something odd"), RetryClassRetryable)
	if got := ClassifyLLMError(err); got != RetryClassRetryable {
		t.Errorf("ClassifyLLMError() = %v, want %v", got, RetryClassRetryable)
	}

	wrapped := fmt.Errorf("chat failed: %w", err)
	if got := ClassifyLLMError(wrapped); got != RetryClassRetryable {
		t.Errorf("ClassifyLLMError(wrapped) = %v, want %v", got, RetryClassRetryable)
	}
}

func TestIsRetryExhausted(t *testing.T) {
	inner := errors.New("boom")
	exhausted := &RetryExhaustedError{Operation: "llm call", Attempts: 3, LastErr: inner}

	if !IsRetryExhausted(exhausted) {
		t.Error("IsRetryExhausted() = false for RetryExhaustedError")
	}
	if !IsRetryExhausted(fmt.Errorf("outer: %w", exhausted)) {
		t.Error("IsRetryExhausted() = false for wrapped RetryExhaustedError")
	}
	if IsRetryExhausted(inner) {
		t.Error("IsRetryExhausted() = true for plain error")
	}
	if !errors.Is(exhausted, inner) {
		t.Error("RetryExhaustedError should unwrap to its last error")
	}
}

func TestValidateArgs(t *testing.T) {
	tool := Tool{
		Name: "typed_tool",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"code": {"type": "string"}
			},
			"required": ["code"]
		}`,
	}

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{"valid", map[string]any{"code": "answer = 1"}, false},
		{"missing required", map[string]any{}, true},
		{"wrong type", map[string]any{"code": 42}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tool.ValidateArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *ToolValidationError
				if !errors.As(err, &verr) {
					t.Errorf("expected ToolValidationError, got %T", err)
				}
			}
		})
	}
}
