// Package mcpserver exposes search and answer-context assembly as MCP tools so agents
// can query the collection over streamable HTTP.
package mcpserver

import (
	"context"
	"net/http"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

// Engine is the query side of the retrieval engine.
type Engine interface {
	Search(ctx context.Context, query string, k int, filter *docModel.Filter) docModel.SearchResult
	AnswerQuestion(ctx context.Context, question string, k int, filter *docModel.Filter) docModel.ContextBundle
}

type Server struct {
	engine Engine
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(engine Engine) *Server {
	s := &Server{
		engine: engine,
		server: mcp.NewServer(&mcp.Implementation{Name: "ragsearch", Version: Version}, nil),
		logger: logger_i.NewLogger("mcp"),
	}
	s.registerTools()
	return s
}

// Handler serves the MCP streamable HTTP transport. Authentication is left to the
// router middleware.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
