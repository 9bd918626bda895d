package history

import (
	"fmt"
	"log"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// SearchResult is a conversation hit from full-text search.
type SearchResult struct {
	RecordID string
	ChatID   string
	Question string
	Score    float64
}

// SearchIndex provides full-text search over persisted conversations.
type SearchIndex struct {
	index bleve.Index
	path  string
}

// NewSearchIndex creates or opens the conversation search index.
// A corrupted index is deleted and recreated rather than failing startup.
func NewSearchIndex(indexPath string) (*SearchIndex, error) {
	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
		log.Println("📚 conversation search index created")
	} else if err != nil {
		log.Printf("⚠️  search index appears corrupted (error: %v), recreating...", err)

		if index != nil {
			index.Close()
		}
		if err := os.RemoveAll(indexPath); err != nil {
			log.Printf("⚠️  failed to remove corrupted index directory: %v", err)
		}

		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to recreate search index: %w", err)
		}
		log.Println("✅ conversation search index recreated")
	}

	return &SearchIndex{
		index: index,
		path:  indexPath,
	}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	recordMapping := bleve.NewDocumentMapping()

	chatIDField := bleve.NewTextFieldMapping()
	chatIDField.Analyzer = keyword.Name
	chatIDField.Store = true
	chatIDField.Index = true
	recordMapping.AddFieldMappingsAt("chat_id", chatIDField)

	questionField := bleve.NewTextFieldMapping()
	questionField.Analyzer = standard.Name
	questionField.Store = true
	questionField.Index = true
	recordMapping.AddFieldMappingsAt("question", questionField)

	insightField := bleve.NewTextFieldMapping()
	insightField.Analyzer = standard.Name
	insightField.Store = false
	insightField.Index = true
	recordMapping.AddFieldMappingsAt("insight", insightField)

	filenameField := bleve.NewTextFieldMapping()
	filenameField.Analyzer = standard.Name
	filenameField.Store = false
	filenameField.Index = true
	recordMapping.AddFieldMappingsAt("filename", filenameField)

	indexMapping.DefaultMapping = recordMapping

	return indexMapping
}

// IndexRecord adds one insight record to the search index.
func (s *SearchIndex) IndexRecord(rec InsightRecord) error {
	doc := map[string]interface{}{
		"chat_id":  rec.ChatID,
		"question": rec.Question,
		"insight":  rec.Insight,
		"filename": rec.Filename,
	}
	return s.index.Index(rec.ID, doc)
}

// DeleteRecords removes records from the index by ID.
func (s *SearchIndex) DeleteRecords(ids []string) error {
	batch := s.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	return s.index.Batch(batch)
}

// Search returns the top k conversations matching the query.
func (s *SearchIndex) Search(query string, k int) ([]SearchResult, error) {
	q := bleve.NewMatchQuery(query)

	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Size = k
	searchRequest.Fields = []string{"chat_id", "question"}

	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("conversation search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := SearchResult{
			RecordID: hit.ID,
			Score:    hit.Score,
		}
		if chatID, ok := hit.Fields["chat_id"].(string); ok {
			result.ChatID = chatID
		}
		if question, ok := hit.Fields["question"].(string); ok {
			result.Question = question
		}
		results = append(results, result)
	}

	return results, nil
}

// Close closes the search index.
func (s *SearchIndex) Close() error {
	return s.index.Close()
}
