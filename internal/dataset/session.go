package dataset

import (
	"sync"
)

// Session owns the currently loaded table for one analysis scope. The
// table handle is passed explicitly to consumers (tools, runner) rather
// than read from process-wide state, so concurrent sessions are isolated
// by construction. Loading a new path replaces the previous table.
type Session struct {
	mu      sync.Mutex
	path    string
	table   *Table
	summary *Summary
}

// NewSession creates an empty dataset session.
func NewSession() *Session {
	return &Session{}
}

// Load reads the file at path, replaces the session's current table, and
// returns the freshly computed summary.
func (s *Session) Load(path string) (*Summary, error) {
	table, err := Load(path)
	if err != nil {
		return nil, err
	}
	summary := Summarize(table)

	s.mu.Lock()
	s.path = path
	s.table = table
	s.summary = summary
	s.mu.Unlock()

	return summary, nil
}

// Table returns the currently loaded table, or nil if none is loaded.
func (s *Session) Table() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Summary returns the summary of the currently loaded table, or nil.
func (s *Session) Summary() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Path returns the source path of the currently loaded table.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// clear drops the current table. Used when the backing file disappears.
func (s *Session) clear() {
	s.mu.Lock()
	s.path = ""
	s.table = nil
	s.summary = nil
	s.mu.Unlock()
}
