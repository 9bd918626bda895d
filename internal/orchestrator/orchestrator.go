// Package orchestrator sequences insight generation, visualization and
// persistence for one incoming question.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ChamsBouzaiene/insightd/internal/history"
)

// InsightFallback is returned to the user when insight generation
// fails; the fault itself is logged, not surfaced.
const InsightFallback = "An error occurred, please try again later."

// QueryRequest is one question about an uploaded dataset.
type QueryRequest struct {
	Query        string `json:"query"`
	Filepath     string `json:"filepath"`
	ChartEnabled bool   `json:"chartEnabled"`
	ChartType    string `json:"chartType"`
	Filename     string `json:"filename"`
	ChatID       string `json:"chatId"`
}

// QueryResponse carries the insight and optional chart back to the caller.
type QueryResponse struct {
	ChatID        string          `json:"chatId"`
	Response      string          `json:"response"`
	Visualization json.RawMessage `json:"visualization"`
}

// ValidationError reports a missing required request field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InsightGenerator produces insight text for a question.
type InsightGenerator interface {
	Generate(ctx context.Context, query, filePath string) (string, error)
}

// VizGenerator produces a chart specification for an answered question.
type VizGenerator interface {
	Generate(ctx context.Context, query, insightText, filePath, chartType string) (json.RawMessage, error)
}

// RecordStore persists answered questions.
type RecordStore interface {
	Append(ctx context.Context, rec history.InsightRecord) (history.InsightRecord, error)
}

// RecordIndexer makes persisted records searchable.
type RecordIndexer interface {
	IndexRecord(rec history.InsightRecord) error
}

// Orchestrator wires the pipelines to the history store.
type Orchestrator struct {
	insight InsightGenerator
	viz     VizGenerator
	store   RecordStore
	indexer RecordIndexer
	logger  *log.Logger
}

// New creates an orchestrator. indexer may be nil when search is disabled.
func New(insight InsightGenerator, viz VizGenerator, store RecordStore, indexer RecordIndexer, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		insight: insight,
		viz:     viz,
		store:   store,
		indexer: indexer,
		logger:  logger,
	}
}

// HandleQuery validates the request, runs the insight pipeline, then
// optionally the visualization pipeline, and appends one history
// record. Pipeline faults are downgraded here so a bad generation turn
// never fails the whole request; only validation errors propagate.
func (o *Orchestrator) HandleQuery(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	if err := validate(req); err != nil {
		return QueryResponse{}, err
	}

	insightText, err := o.insight.Generate(ctx, req.Query, req.Filepath)
	if err != nil {
		o.logger.Printf("⚠️ insight generation failed: %v", err)
		insightText = InsightFallback
	}

	var viz json.RawMessage
	if req.ChartEnabled {
		viz, err = o.viz.Generate(ctx, req.Query, insightText, req.Filepath, req.ChartType)
		if err != nil {
			o.logger.Printf("⚠️ visualization failed: %v", err)
			payload, _ := json.Marshal(map[string]string{
				"error": fmt.Sprintf("Visualization generation failed: %v", err),
			})
			viz = payload
		}
	}

	o.persist(ctx, req, insightText, viz)

	return QueryResponse{
		ChatID:        req.ChatID,
		Response:      insightText,
		Visualization: viz,
	}, nil
}

func validate(req QueryRequest) error {
	if req.Query == "" {
		return &ValidationError{Message: "Query cannot be empty"}
	}
	if req.Filepath == "" {
		return &ValidationError{Message: "No dataset provided"}
	}
	if req.ChatID == "" {
		return &ValidationError{Message: "Chat ID missing"}
	}
	return nil
}

// persist appends one record and indexes it. Store faults are logged
// and swallowed: the computed answer is worth more than the history
// write.
func (o *Orchestrator) persist(ctx context.Context, req QueryRequest, insightText string, viz json.RawMessage) {
	rec := history.InsightRecord{
		ChatID:   req.ChatID,
		Question: req.Query,
		Insight:  insightText,
		Filename: req.Filename,
	}
	if viz != nil {
		v := string(viz)
		rec.Visualization = &v
	}

	stored, err := o.store.Append(ctx, rec)
	if err != nil {
		o.logger.Printf("⚠️ failed to persist insight record: %v", err)
		return
	}

	if o.indexer != nil {
		if err := o.indexer.IndexRecord(stored); err != nil {
			o.logger.Printf("⚠️ failed to index insight record: %v", err)
		}
	}
}
