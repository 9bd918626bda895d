package engine

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryPolicy controls backoff behavior for a class of operations.
type RetryPolicy struct {
	MaxRetries int           // Maximum retry attempts (0 = no retries)
	BaseDelay  time.Duration // Initial backoff delay
	MaxDelay   time.Duration // Backoff ceiling
	Jitter     float64       // Fraction of delay to randomize (0.0 - 1.0)
}

// RetryConfig bundles policies for the two retryable operation classes.
type RetryConfig struct {
	LLMPolicy  RetryPolicy
	ToolPolicy RetryPolicy
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		LLMPolicy: RetryPolicy{
			MaxRetries: 3,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   8 * time.Second,
			Jitter:     0.2,
		},
		ToolPolicy: RetryPolicy{
			MaxRetries: 1,
			BaseDelay:  200 * time.Millisecond,
			MaxDelay:   2 * time.Second,
			Jitter:     0.2,
		},
	}
}

// backoffDelay computes the delay before the given attempt (1-indexed).
func (p RetryPolicy) backoffDelay(attempt int) time.Duration {
	delay := p.BaseDelay << (attempt - 1)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}
	if p.Jitter > 0 {
		jitter := time.Duration(float64(delay) * p.Jitter * rand.Float64())
		delay += jitter
	}
	return delay
}

// retryNotify is called before each retry attempt.
type retryNotify func(attempt int, delay time.Duration, err error)

// retryLLMCall invokes fn with retries according to policy and error class.
func retryLLMCall(ctx context.Context, policy RetryPolicy, fn func() (LLMResponse, error), notify retryNotify) (LLMResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := policy.backoffDelay(attempt)
			if notify != nil {
				notify(attempt, delay, lastErr)
			}
			select {
			case <-ctx.Done():
				return LLMResponse{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch ClassifyLLMError(err) {
		case RetryClassNonRetryable:
			return LLMResponse{}, err
		case RetryClassMaybe:
			// One cautious retry only, regardless of policy.
			if attempt >= 1 {
				return LLMResponse{}, err
			}
		}
	}
	return LLMResponse{}, &RetryExhaustedError{
		Operation: "llm call",
		Attempts:  policy.MaxRetries + 1,
		LastErr:   lastErr,
	}
}

// retryToolCall executes a tool call with retries for retryable tools.
func retryToolCall(ctx context.Context, policy RetryPolicy, call ToolCall, reg ToolRegistry, notify retryNotify) (string, error) {
	tool, ok := reg[call.Name]
	retries := 0
	if ok && tool.Retryable {
		retries = policy.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := policy.backoffDelay(attempt)
			if notify != nil {
				notify(attempt, delay, lastErr)
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		res, err := executeTool(ctx, call, reg)
		if err == nil {
			return res, nil
		}
		lastErr = err

		// Validation failures will not fix themselves; stop immediately.
		var validationErr *ToolValidationError
		if errors.As(err, &validationErr) {
			return "", err
		}
	}
	if retries == 0 {
		return "", lastErr
	}
	return "", &RetryExhaustedError{
		Operation: "tool " + call.Name,
		Attempts:  retries + 1,
		LastErr:   lastErr,
	}
}
