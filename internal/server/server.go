// Package server exposes the insight orchestrator and conversation
// history over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/insightd/internal/dataset"
	"github.com/ChamsBouzaiene/insightd/internal/history"
	"github.com/ChamsBouzaiene/insightd/internal/orchestrator"
)

// allowed dataset extensions, matching the loader
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

const defaultSearchSize = 10

// HistoryReader covers the read/delete side of the history store.
type HistoryReader interface {
	ListAll(ctx context.Context) ([]history.InsightRecord, error)
	ListByChat(ctx context.Context, chatID string) ([]history.InsightRecord, error)
	DeleteByChat(ctx context.Context, chatID string) (int64, error)
	DeleteAll(ctx context.Context) error
}

// Searcher covers conversation full-text search and its upkeep when
// records are deleted.
type Searcher interface {
	Search(query string, k int) ([]history.SearchResult, error)
	DeleteRecords(ids []string) error
}

// QueryHandler answers one dataset question.
type QueryHandler interface {
	HandleQuery(ctx context.Context, req orchestrator.QueryRequest) (orchestrator.QueryResponse, error)
}

// Server wires HTTP routes to the orchestrator and history store.
type Server struct {
	orch           QueryHandler
	store          HistoryReader
	search         Searcher
	watcher        *dataset.FileWatcher
	uploadDir      string
	maxUploadBytes int64
	logger         *log.Logger
}

// New creates a server. search and watcher may be nil.
func New(orch QueryHandler, store HistoryReader, search Searcher, watcher *dataset.FileWatcher, uploadDir string, maxUploadBytes int64, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		orch:           orch,
		store:          store,
		search:         search,
		watcher:        watcher,
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Routes returns the HTTP mux for the server.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /get-conversations", s.handleListConversations)
	mux.HandleFunc("GET /get-chat/{id}", s.handleGetChat)
	mux.HandleFunc("DELETE /delete-chat/{id}", s.handleDeleteChat)
	mux.HandleFunc("DELETE /clear-all", s.handleClearAll)
	mux.HandleFunc("GET /search-conversations", s.handleSearch)
	return mux
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported file type: %s", ext))
		return
	}

	// Prefix with a UUID so repeated uploads of the same file never collide.
	savedName := uuid.New().String() + "_" + filepath.Base(header.Filename)
	savedPath := filepath.Join(s.uploadDir, savedName)

	dst, err := os.Create(savedPath)
	if err != nil {
		s.logger.Printf("⚠️ failed to create upload file: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		s.logger.Printf("⚠️ failed to write upload file: %v", err)
		os.Remove(savedPath)
		writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	if s.watcher != nil {
		if err := s.watcher.Watch(savedPath); err != nil {
			s.logger.Printf("⚠️ failed to watch uploaded file: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"filepath": savedPath,
		"filename": header.Filename,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	resp, err := s.orch.HandleQuery(r.Context(), req)
	if err != nil {
		var verr *orchestrator.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		s.logger.Printf("⚠️ query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListAll(r.Context())
	if err != nil {
		s.logger.Printf("⚠️ failed to list conversations: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load conversations")
		return
	}
	if records == nil {
		records = []history.InsightRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// chatMessage is one side of a question/answer pair in a conversation.
type chatMessage struct {
	Role          string  `json:"role"`
	Content       string  `json:"content"`
	Visualization *string `json:"visualization,omitempty"`
	Timestamp     string  `json:"timestamp"`
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("id")

	records, err := s.store.ListByChat(r.Context(), chatID)
	if err != nil {
		s.logger.Printf("⚠️ failed to load chat %s: %v", chatID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load chat")
		return
	}

	messages := make([]chatMessage, 0, len(records)*2)
	for _, rec := range records {
		ts := rec.Timestamp.Format("2006-01-02T15:04:05Z07:00")
		messages = append(messages, chatMessage{
			Role:      "user",
			Content:   rec.Question,
			Timestamp: ts,
		})
		messages = append(messages, chatMessage{
			Role:          "assistant",
			Content:       rec.Insight,
			Visualization: rec.Visualization,
			Timestamp:     ts,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chatId":   chatID,
		"messages": messages,
	})
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("id")

	// Collect record IDs first so the search index can be pruned after
	// the rows are gone.
	records, err := s.store.ListByChat(r.Context(), chatID)
	if err != nil {
		s.logger.Printf("⚠️ failed to load chat %s: %v", chatID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}

	deleted, err := s.store.DeleteByChat(r.Context(), chatID)
	if err != nil {
		s.logger.Printf("⚠️ failed to delete chat %s: %v", chatID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}

	s.pruneIndex(records)

	writeJSON(w, http.StatusOK, map[string]any{
		"deleted": deleted,
	})
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListAll(r.Context())
	if err != nil {
		s.logger.Printf("⚠️ failed to load history: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	if err := s.store.DeleteAll(r.Context()); err != nil {
		s.logger.Printf("⚠️ failed to clear history: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	s.pruneIndex(records)

	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// pruneIndex removes deleted records from the search index. Index
// failures are logged rather than surfaced; the rows are already gone.
func (s *Server) pruneIndex(records []history.InsightRecord) {
	if s.search == nil || len(records) == 0 {
		return
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	if err := s.search.DeleteRecords(ids); err != nil {
		s.logger.Printf("⚠️ failed to prune search index: %v", err)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		writeError(w, http.StatusNotImplemented, "Search is not enabled")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Missing query parameter: q")
		return
	}

	results, err := s.search.Search(query, defaultSearchSize)
	if err != nil {
		s.logger.Printf("⚠️ conversation search failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	if results == nil {
		results = []history.SearchResult{}
	}

	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
