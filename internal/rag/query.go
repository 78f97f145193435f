package rag

import (
	"context"
	"time"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/metrics"
)

const retrievalFailedAnswer = "Error occurred during context retrieval."

// Search never returns a Go error: failures come back as empty slices plus Error.
// The date post-filter runs on the top-k set, so fewer than k results may come back.
func (s *service) Search(ctx context.Context, query string, k int, filter *docModel.Filter) docModel.SearchResult {
	matches, err := s.retrieve(ctx, query, k, filter)
	if err != nil {
		return docModel.SearchResult{
			Documents: []string{},
			Ids:       []string{},
			Distances: []float32{},
			Metadatas: []docModel.Metadata{},
			Error:     err.Error(),
		}
	}
	return toSearchResult(matches)
}

func (s *service) AnswerQuestion(ctx context.Context, question string, k int, filter *docModel.Filter) docModel.ContextBundle {
	res := s.Search(ctx, question, k, filter)
	bundle := docModel.ContextBundle{
		Question:  question,
		Documents: res.Documents,
		Ids:       res.Ids,
		Distances: res.Distances,
		Metadatas: res.Metadatas,
		Error:     res.Error,
	}
	if res.Error != "" {
		bundle.PlaceholderAnswer = retrievalFailedAnswer
	} else {
		bundle.PlaceholderAnswer = placeholderAnswer(question, res.Metadatas)
	}
	return bundle
}

func (s *service) retrieve(ctx context.Context, query string, k int, filter *docModel.Filter) ([]docModel.Match, error) {
	log := s.logger.WithTrace(ctx)

	vector, err := s.embed(ctx, query)
	if err != nil {
		log.Error("query embedding failed", "error", err)
		return nil, embeddingError("", err)
	}

	start := time.Now()
	matches, err := s.index.Query(ctx, vector, k, filter.Equality())
	metrics.CaptureExecutionMetrics("vector_query", time.Since(start))
	if err != nil {
		log.Error("index query failed", "error", err)
		return nil, indexError("", err)
	}

	kept := postFilterByDate(matches, filter, log)
	if dropped := len(matches) - len(kept); dropped > 0 {
		metrics.PostFilterDropped(dropped)
	}
	return kept, nil
}

func toSearchResult(matches []docModel.Match) docModel.SearchResult {
	res := docModel.SearchResult{
		Documents: make([]string, 0, len(matches)),
		Ids:       make([]string, 0, len(matches)),
		Distances: make([]float32, 0, len(matches)),
		Metadatas: make([]docModel.Metadata, 0, len(matches)),
	}
	for _, m := range matches {
		res.Documents = append(res.Documents, m.Document)
		res.Ids = append(res.Ids, m.Id)
		res.Distances = append(res.Distances, m.Distance)
		res.Metadatas = append(res.Metadatas, m.Metadata)
	}
	return res
}
