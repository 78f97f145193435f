package mcpserver

import (
	"context"
	"testing"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockEngine struct {
	OnSearch func(ctx context.Context, query string, k int, filter *docModel.Filter) docModel.SearchResult
	OnAnswer func(ctx context.Context, question string, k int, filter *docModel.Filter) docModel.ContextBundle
}

func (m *MockEngine) Search(ctx context.Context, query string, k int, filter *docModel.Filter) docModel.SearchResult {
	return m.OnSearch(ctx, query, k, filter)
}

func (m *MockEngine) AnswerQuestion(ctx context.Context, question string, k int, filter *docModel.Filter) docModel.ContextBundle {
	return m.OnAnswer(ctx, question, k, filter)
}

func oneHit() docModel.SearchResult {
	return docModel.SearchResult{
		Ids:       []string{"edls_1"},
		Documents: []string{"TITLE: budget"},
		Distances: []float32{0.1},
		Metadatas: []docModel.Metadata{{"doc_type": "edls"}},
	}
}

func TestHandleSearch(t *testing.T) {
	var gotK int
	var gotFilter *docModel.Filter
	s := NewServer(&MockEngine{OnSearch: func(ctx context.Context, query string, k int, filter *docModel.Filter) docModel.SearchResult {
		gotK, gotFilter = k, filter
		return oneHit()
	}})

	_, out, err := s.handleSearch(context.Background(), nil, SearchInput{Query: "budget"})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSearchResults, gotK)
	assert.Nil(t, gotFilter)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "edls_1", out.Results[0].Id)
	assert.Equal(t, "edls", out.Results[0].Metadata["doc_type"])

	_, _, err = s.handleSearch(context.Background(), nil, SearchInput{Query: "budget", NResults: 500, DocumentType: "forces"})
	require.NoError(t, err)
	assert.Equal(t, config.MaxSearchResults, gotK)
	require.NotNil(t, gotFilter)
	assert.Equal(t, "forces", gotFilter.DocumentType)
}

func TestHandleSearch_Errors(t *testing.T) {
	s := NewServer(&MockEngine{OnSearch: func(ctx context.Context, query string, k int, filter *docModel.Filter) docModel.SearchResult {
		return docModel.SearchResult{Error: "index unavailable"}
	}})

	_, _, err := s.handleSearch(context.Background(), nil, SearchInput{})
	assert.EqualError(t, err, "query is required")

	_, _, err = s.handleSearch(context.Background(), nil, SearchInput{Query: "x"})
	assert.EqualError(t, err, "index unavailable")
}

func TestHandleAnswer(t *testing.T) {
	s := NewServer(&MockEngine{OnAnswer: func(ctx context.Context, question string, k int, filter *docModel.Filter) docModel.ContextBundle {
		assert.Equal(t, config.DefaultContextResults, k)
		hit := oneHit()
		return docModel.ContextBundle{
			Question:          question,
			PlaceholderAnswer: "placeholder",
			Documents:         hit.Documents,
			Ids:               hit.Ids,
			Distances:         hit.Distances,
			Metadatas:         hit.Metadatas,
		}
	}})

	_, out, err := s.handleAnswer(context.Background(), nil, AnswerInput{Question: "why?"})
	require.NoError(t, err)
	assert.Equal(t, "why?", out.Question)
	assert.Equal(t, "placeholder", out.PlaceholderAnswer)
	assert.Len(t, out.Context, 1)
}

func TestServer_CallToolOverSession(t *testing.T) {
	ctx := context.Background()
	s := NewServer(&MockEngine{OnSearch: func(ctx context.Context, query string, k int, filter *docModel.Filter) docModel.SearchResult {
		return oneHit()
	}})

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"search", "answer_question"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "search",
		Arguments: map[string]any{"query": "budget"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
