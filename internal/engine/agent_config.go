package engine

// AgentConfig holds configuration for an agent instance.
type AgentConfig struct {
	Model           string
	MaxSteps        int
	RetryConfig     *RetryConfig
	Temperature     float32
	MaxOutputTokens int // Maximum tokens for LLM output (0 = use default)
}

// DefaultAgentConfig returns a default agent configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Model:           "gpt-4o-mini",
		MaxSteps:        15,
		MaxOutputTokens: 8192,
	}
}
