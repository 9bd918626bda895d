package engine

import (
	"fmt"

	"github.com/ChamsBouzaiene/insightd/internal/prompts"
)

// AgentBuilder helps construct an Agent with a fluent API.
type AgentBuilder struct {
	config AgentConfig
	llm    LLMClient
	tools  ToolRegistry
	hooks  Hooks
	prompt *prompts.Prompt
}

// NewAgentBuilder creates a new agent builder with default configuration.
func NewAgentBuilder() *AgentBuilder {
	return &AgentBuilder{
		config: DefaultAgentConfig(),
	}
}

// WithModel sets the model name.
func (b *AgentBuilder) WithModel(model string) *AgentBuilder {
	b.config.Model = model
	return b
}

// WithLLM sets the LLM client.
func (b *AgentBuilder) WithLLM(llm LLMClient) *AgentBuilder {
	b.llm = llm
	return b
}

// WithMaxSteps sets the maximum number of steps.
func (b *AgentBuilder) WithMaxSteps(maxSteps int) *AgentBuilder {
	b.config.MaxSteps = maxSteps
	return b
}

// WithRetryConfig sets the retry configuration.
func (b *AgentBuilder) WithRetryConfig(retryConfig *RetryConfig) *AgentBuilder {
	b.config.RetryConfig = retryConfig
	return b
}

// WithToolRegistry provides a fully constructed tool registry.
func (b *AgentBuilder) WithToolRegistry(reg ToolRegistry) *AgentBuilder {
	b.tools = reg
	return b
}

// WithHooks appends observability hooks.
func (b *AgentBuilder) WithHooks(hooks ...Hook) *AgentBuilder {
	b.hooks = append(b.hooks, hooks...)
	return b
}

// WithPrompt sets the prompt by ID and version from the default registry.
func (b *AgentBuilder) WithPrompt(id string, version prompts.PromptVersion) (*AgentBuilder, error) {
	registry := prompts.DefaultRegistry()
	prompt, err := registry.Get(id, version)
	if err != nil {
		return nil, err
	}
	b.prompt = prompt
	return b, nil
}

// WithPromptContent sets a prompt directly, bypassing the registry.
func (b *AgentBuilder) WithPromptContent(p *prompts.Prompt) *AgentBuilder {
	b.prompt = p
	return b
}

// Build validates the configuration and constructs the Agent.
func (b *AgentBuilder) Build() (*Agent, error) {
	if b.llm == nil {
		return nil, fmt.Errorf("agent requires an LLM client")
	}
	if b.prompt == nil {
		return nil, fmt.Errorf("agent requires a prompt")
	}
	if b.tools == nil {
		b.tools = make(ToolRegistry)
	}
	return &Agent{
		llm:    b.llm,
		tools:  b.tools,
		config: b.config,
		hooks:  b.hooks,
		prompt: b.prompt,
	}, nil
}
