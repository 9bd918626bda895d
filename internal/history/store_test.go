package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndListByChat(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	viz := `{"visualizationType":"bar"}`

	for i, q := range []string{"first question", "second question"} {
		rec := InsightRecord{
			ChatID:    "chat-1",
			Question:  q,
			Insight:   "answer",
			Filename:  "sales.csv",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if i == 1 {
			rec.Visualization = &viz
		}
		stored, err := store.Append(ctx, rec)
		if err != nil {
			t.Fatalf("Append() error: %v", err)
		}
		if stored.ID == "" {
			t.Error("Append() should assign an ID")
		}
	}

	records, err := store.ListByChat(ctx, "chat-1")
	if err != nil {
		t.Fatalf("ListByChat() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// Oldest first within a conversation.
	if records[0].Question != "first question" {
		t.Errorf("first record = %q, want oldest", records[0].Question)
	}
	if records[0].Visualization != nil {
		t.Error("first record should have nil visualization")
	}
	if records[1].Visualization == nil || *records[1].Visualization != viz {
		t.Error("second record should round-trip its visualization")
	}
}

func TestSubSecondOrderingIsStable(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	// Two turns landing within the same second must keep their order.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, q := range []string{"earlier turn", "later turn"} {
		if _, err := store.Append(ctx, InsightRecord{
			ChatID:    "chat-1",
			Question:  q,
			Insight:   "a",
			Filename:  "f.csv",
			Timestamp: base.Add(time.Duration(i) * 100 * time.Millisecond),
		}); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	records, err := store.ListByChat(ctx, "chat-1")
	if err != nil {
		t.Fatalf("ListByChat() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Question != "earlier turn" || records[1].Question != "later turn" {
		t.Errorf("order = %q, %q; want insertion order", records[0].Question, records[1].Question)
	}
	if !records[1].Timestamp.After(records[0].Timestamp) {
		t.Errorf("timestamps lost sub-second precision: %v vs %v",
			records[0].Timestamp, records[1].Timestamp)
	}
}

func TestListAllNewestFirst(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, chat := range []string{"chat-a", "chat-b", "chat-c"} {
		_, err := store.Append(ctx, InsightRecord{
			ChatID:    chat,
			Question:  "q",
			Insight:   "a",
			Filename:  "f.csv",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	records, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].ChatID != "chat-c" || records[2].ChatID != "chat-a" {
		t.Errorf("order = %s %s %s, want newest first",
			records[0].ChatID, records[1].ChatID, records[2].ChatID)
	}
}

func TestDeleteByChatAndDeleteAll(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	for _, chat := range []string{"chat-1", "chat-1", "chat-2"} {
		if _, err := store.Append(ctx, InsightRecord{
			ChatID: chat, Question: "q", Insight: "a", Filename: "f.csv",
		}); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	deleted, err := store.DeleteByChat(ctx, "chat-1")
	if err != nil {
		t.Fatalf("DeleteByChat() error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ChatID != "chat-2" {
		t.Errorf("remaining = %+v, want only chat-2", remaining)
	}

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error: %v", err)
	}
	empty, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d records after DeleteAll, want 0", len(empty))
	}
}

func TestSearchIndexRoundTrip(t *testing.T) {
	idx, err := NewSearchIndex(filepath.Join(t.TempDir(), "conv.bleve"))
	if err != nil {
		t.Fatalf("NewSearchIndex() error: %v", err)
	}
	defer idx.Close()

	records := []InsightRecord{
		{ID: "r1", ChatID: "chat-1", Question: "total revenue by brand", Insight: "Acme leads", Filename: "sales.csv"},
		{ID: "r2", ChatID: "chat-2", Question: "average customer age", Insight: "34.2 years", Filename: "customers.csv"},
	}
	for _, rec := range records {
		if err := idx.IndexRecord(rec); err != nil {
			t.Fatalf("IndexRecord() error: %v", err)
		}
	}

	hits, err := idx.Search("revenue", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if hits[0].RecordID != "r1" || hits[0].ChatID != "chat-1" {
		t.Errorf("hit = %+v, want record r1", hits[0])
	}

	if err := idx.DeleteRecords([]string{"r1"}); err != nil {
		t.Fatalf("DeleteRecords() error: %v", err)
	}
	hits, err = idx.Search("revenue", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits after delete, want 0", len(hits))
	}
}
