// Package history persists answered questions per conversation and
// makes them searchable.
package history

import "time"

// InsightRecord is one answered question in a conversation.
type InsightRecord struct {
	ID            string    `json:"id"`
	ChatID        string    `json:"chatId"`
	Question      string    `json:"question"`
	Insight       string    `json:"insight"`
	Visualization *string   `json:"visualization"` // JSON chart spec, nil when charts were disabled
	Filename      string    `json:"filename"`
	Timestamp     time.Time `json:"timestamp"`
}
