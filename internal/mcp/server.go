// Package mcp serves the recommendation engine to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cinematch/cinematch/internal/recommend"
)

// Server wraps an MCP server bound to one Engine.
type Server struct {
	engine        *recommend.Engine
	overviewChars int
	mcp           *server.MCPServer
}

// NewServer creates a Server and registers its tools.
func NewServer(engine *recommend.Engine, version string, overviewChars int) *Server {
	s := &Server{
		engine:        engine,
		overviewChars: overviewChars,
		mcp:           server.NewMCPServer("cinematch", version, server.WithToolCapabilities(false)),
	}
	s.registerTools()
	return s
}

// ServeStdio blocks serving requests on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("recommend_movies",
		mcp.WithDescription("Recommend movies similar to the given title, best match first. Misspelt titles resolve to the closest known title."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Movie title, e.g. \"Titanic\"")),
		mcp.WithNumber("k", mcp.Description("Number of recommendations (default from config, max 50)")),
	), s.handleRecommend)

	s.mcp.AddTool(mcp.NewTool("search_titles",
		mcp.WithDescription("Find known movie titles closest to a query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Partial or misspelt title")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of titles (default 10)")),
	), s.handleSearch)
}
