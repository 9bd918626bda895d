package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/insightd/internal/history"
)

type fakeInsight struct {
	text  string
	err   error
	calls int
}

func (f *fakeInsight) Generate(ctx context.Context, query, filePath string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeViz struct {
	payload json.RawMessage
	err     error
	calls   int
}

func (f *fakeViz) Generate(ctx context.Context, query, insightText, filePath, chartType string) (json.RawMessage, error) {
	f.calls++
	return f.payload, f.err
}

type fakeStore struct {
	records []history.InsightRecord
	err     error
}

func (f *fakeStore) Append(ctx context.Context, rec history.InsightRecord) (history.InsightRecord, error) {
	if f.err != nil {
		return history.InsightRecord{}, f.err
	}
	rec.ID = "rec-1"
	f.records = append(f.records, rec)
	return rec, nil
}

type fakeIndexer struct {
	indexed []history.InsightRecord
	err     error
}

func (f *fakeIndexer) IndexRecord(rec history.InsightRecord) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, rec)
	return nil
}

func validRequest() QueryRequest {
	return QueryRequest{
		Query:    "total revenue",
		Filepath: "uploads/sales.csv",
		Filename: "sales.csv",
		ChatID:   "chat-1",
	}
}

func TestHandleQueryValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*QueryRequest)
		wantMsg string
	}{
		{"empty query", func(r *QueryRequest) { r.Query = "" }, "Query cannot be empty"},
		{"no dataset", func(r *QueryRequest) { r.Filepath = "" }, "No dataset provided"},
		{"missing chat id", func(r *QueryRequest) { r.ChatID = "" }, "Chat ID missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insight := &fakeInsight{text: "should not run"}
			viz := &fakeViz{}
			store := &fakeStore{}
			o := New(insight, viz, store, nil, nil)

			req := validRequest()
			tt.mutate(&req)

			_, err := o.HandleQuery(context.Background(), req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %T, want *ValidationError", err)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", verr.Message, tt.wantMsg)
			}

			// Validation failures must not start any work.
			if insight.calls != 0 || viz.calls != 0 {
				t.Error("pipelines must not run on validation failure")
			}
			if len(store.records) != 0 {
				t.Error("nothing should be persisted on validation failure")
			}
		})
	}
}

func TestHandleQueryWithoutChart(t *testing.T) {
	insight := &fakeInsight{text: "Total revenue is 400.00"}
	viz := &fakeViz{}
	store := &fakeStore{}
	indexer := &fakeIndexer{}
	o := New(insight, viz, store, indexer, nil)

	resp, err := o.HandleQuery(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("HandleQuery() error: %v", err)
	}

	if resp.ChatID != "chat-1" {
		t.Errorf("ChatID = %q, want chat-1", resp.ChatID)
	}
	if resp.Response != "Total revenue is 400.00" {
		t.Errorf("Response = %q", resp.Response)
	}
	if resp.Visualization != nil {
		t.Errorf("Visualization = %s, want nil", resp.Visualization)
	}
	if viz.calls != 0 {
		t.Error("visualization must not run when charts are disabled")
	}

	if len(store.records) != 1 {
		t.Fatalf("persisted %d records, want 1", len(store.records))
	}
	rec := store.records[0]
	if rec.Visualization != nil {
		t.Error("record visualization should be nil without charts")
	}
	if rec.Question != "total revenue" || rec.Filename != "sales.csv" {
		t.Errorf("record = %+v", rec)
	}
	if len(indexer.indexed) != 1 {
		t.Errorf("indexed %d records, want 1", len(indexer.indexed))
	}
}

func TestHandleQueryWithChart(t *testing.T) {
	payload := json.RawMessage(`{"visualizationType":"bar","echartsOption":{}}`)
	insight := &fakeInsight{text: "insight"}
	viz := &fakeViz{payload: payload}
	store := &fakeStore{}
	o := New(insight, viz, store, nil, nil)

	req := validRequest()
	req.ChartEnabled = true
	req.ChartType = "bar"

	resp, err := o.HandleQuery(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleQuery() error: %v", err)
	}

	if string(resp.Visualization) != string(payload) {
		t.Errorf("Visualization = %s, want %s", resp.Visualization, payload)
	}
	if len(store.records) != 1 || store.records[0].Visualization == nil {
		t.Fatal("record should carry the visualization")
	}
	if *store.records[0].Visualization != string(payload) {
		t.Errorf("stored visualization = %q", *store.records[0].Visualization)
	}
}

func TestHandleQueryInsightFaultFallsBack(t *testing.T) {
	insight := &fakeInsight{err: errors.New("engine exploded")}
	store := &fakeStore{}
	o := New(insight, &fakeViz{}, store, nil, nil)

	resp, err := o.HandleQuery(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("HandleQuery() error: %v", err)
	}
	if resp.Response != InsightFallback {
		t.Errorf("Response = %q, want fallback", resp.Response)
	}

	// The fallback answer is still recorded.
	if len(store.records) != 1 || store.records[0].Insight != InsightFallback {
		t.Error("fallback insight should be persisted")
	}
}

func TestHandleQueryVizFaultBecomesErrorPayload(t *testing.T) {
	insight := &fakeInsight{text: "insight"}
	viz := &fakeViz{err: errors.New("engine exploded")}
	o := New(insight, viz, &fakeStore{}, nil, nil)

	req := validRequest()
	req.ChartEnabled = true

	resp, err := o.HandleQuery(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleQuery() error: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(resp.Visualization, &decoded); err != nil {
		t.Fatalf("visualization payload is not JSON: %v", err)
	}
	if !strings.HasPrefix(decoded["error"], "Visualization generation failed:") {
		t.Errorf("error payload = %q", decoded["error"])
	}
	if resp.Response != "insight" {
		t.Error("visualization fault must not affect the insight")
	}
}

func TestHandleQueryStoreFaultSwallowed(t *testing.T) {
	insight := &fakeInsight{text: "insight"}
	store := &fakeStore{err: errors.New("disk full")}
	o := New(insight, &fakeViz{}, store, nil, nil)

	resp, err := o.HandleQuery(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("HandleQuery() error: %v", err)
	}
	if resp.Response != "insight" {
		t.Errorf("Response = %q, persistence failure must not affect it", resp.Response)
	}
}
