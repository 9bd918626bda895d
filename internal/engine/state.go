package engine

// State holds the evolving conversation state for one engine session.
type State struct {
	History  []ChatMessage
	Model    string
	MaxSteps int
	Step     int
	Done     bool
	// FinalText is the last assistant message produced without tool calls.
	// It is the session's answer once Done is true.
	FinalText string
	Totals    Usage
}

// Append adds a message to the history.
func (s *State) Append(msg ChatMessage) {
	s.History = append(s.History, msg)
}

// LastAssistant returns the most recent assistant message, or nil.
func (s *State) LastAssistant() *ChatMessage {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == RoleAssistant {
			return &s.History[i]
		}
	}
	return nil
}
