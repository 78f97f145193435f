package mcpserver

import (
	"context"
	"errors"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SearchInput struct {
	Query        string `json:"query" jsonschema:"the search query"`
	NResults     int    `json:"n_results,omitempty" jsonschema:"maximum number of results (default 5)"`
	DocumentType string `json:"document_type,omitempty" jsonschema:"restrict to edls, forces or standard documents"`
	SourceType   string `json:"source_type,omitempty" jsonschema:"restrict to internal or external sources"`
	DateFrom     string `json:"date_from,omitempty" jsonschema:"inclusive lower bound on created_at, ISO-8601"`
	DateTo       string `json:"date_to,omitempty" jsonschema:"inclusive upper bound on created_at, ISO-8601"`
}

type AnswerInput struct {
	Question           string `json:"question" jsonschema:"the question to gather context for"`
	NResultsForContext int    `json:"n_results_for_context,omitempty" jsonschema:"number of context documents (default 3)"`
	DocumentType       string `json:"document_type,omitempty" jsonschema:"restrict to edls, forces or standard documents"`
	SourceType         string `json:"source_type,omitempty" jsonschema:"restrict to internal or external sources"`
	DateFrom           string `json:"date_from,omitempty" jsonschema:"inclusive lower bound on created_at, ISO-8601"`
	DateTo             string `json:"date_to,omitempty" jsonschema:"inclusive upper bound on created_at, ISO-8601"`
}

type Hit struct {
	Id       string            `json:"id"`
	Document string            `json:"document"`
	Distance float32           `json:"distance"`
	Metadata map[string]string `json:"metadata"`
}

type SearchOutput struct {
	Results []Hit `json:"results"`
	Count   int   `json:"count"`
}

type AnswerOutput struct {
	Question          string `json:"question"`
	PlaceholderAnswer string `json:"placeholder_answer"`
	Context           []Hit  `json:"context"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search over EDLS reports, strength/weakness assessments and uploaded documents",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer_question",
		Description: "Retrieve the context documents for a question together with a placeholder answer",
	}, s.handleAnswer)
}

// toFilter returns nil when no filter field is set.
func toFilter(docType, sourceType, dateFrom, dateTo string) *docModel.Filter {
	f := docModel.Filter{DocumentType: docType, SourceType: sourceType, DateFrom: dateFrom, DateTo: dateTo}
	if f == (docModel.Filter{}) {
		return nil
	}
	return &f
}

func clampK(k int, fallback int) int {
	if k <= 0 {
		return fallback
	}
	return min(k, config.MaxSearchResults)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Query == "" {
		return nil, SearchOutput{}, errors.New("query is required")
	}
	res := s.engine.Search(ctx, input.Query, clampK(input.NResults, config.DefaultSearchResults),
		toFilter(input.DocumentType, input.SourceType, input.DateFrom, input.DateTo))
	if res.Error != "" {
		s.logger.WithTrace(ctx).Warn("search tool failed", "error", res.Error)
		return nil, SearchOutput{}, errors.New(res.Error)
	}
	hits := toHits(res.Ids, res.Documents, res.Distances, res.Metadatas)
	return nil, SearchOutput{Results: hits, Count: len(hits)}, nil
}

func (s *Server) handleAnswer(ctx context.Context, _ *mcp.CallToolRequest, input AnswerInput) (*mcp.CallToolResult, AnswerOutput, error) {
	if input.Question == "" {
		return nil, AnswerOutput{}, errors.New("question is required")
	}
	b := s.engine.AnswerQuestion(ctx, input.Question, clampK(input.NResultsForContext, config.DefaultContextResults),
		toFilter(input.DocumentType, input.SourceType, input.DateFrom, input.DateTo))
	if b.Error != "" {
		s.logger.WithTrace(ctx).Warn("answer tool failed", "error", b.Error)
		return nil, AnswerOutput{}, errors.New(b.Error)
	}
	return nil, AnswerOutput{
		Question:          b.Question,
		PlaceholderAnswer: b.PlaceholderAnswer,
		Context:           toHits(b.Ids, b.Documents, b.Distances, b.Metadatas),
	}, nil
}

func toHits(ids []string, docs []string, distances []float32, metas []docModel.Metadata) []Hit {
	hits := make([]Hit, len(ids))
	for i := range ids {
		hits[i] = Hit{Id: ids[i], Document: docs[i], Distance: distances[i], Metadata: metas[i]}
	}
	return hits
}
