package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cinematch/cinematch/internal/export"
	"github.com/cinematch/cinematch/internal/recommend"
)

const (
	maxK         = 50
	defaultLimit = 10
)

func (s *Server) handleRecommend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil || strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("missing required parameter: title"), nil
	}
	k := req.GetInt("k", s.engine.TopK())
	if k <= 0 || k > maxK {
		return mcp.NewToolResultError(fmt.Sprintf("k must be between 1 and %d", maxK)), nil
	}

	match, err := s.engine.ResolveTitle(title)
	if err != nil {
		return mcp.NewToolResultError(toolErrorMessage(title, err)), nil
	}
	recs, err := s.engine.RecommendFor(ctx, match.Movie, k)
	if err != nil {
		return mcp.NewToolResultError(toolErrorMessage(title, err)), nil
	}

	exp, _ := export.Get("markdown")
	out, err := exp.Export(export.ExportData{
		Query:         title,
		Match:         match,
		Items:         recs,
		OverviewChars: s.overviewChars,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := req.GetInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}

	matches := s.engine.Search(query, limit)
	if len(matches) == 0 {
		return mcp.NewToolResultText("No titles loaded."), nil
	}

	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "- %s (%.0f)\n", m.Title, m.Score)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func toolErrorMessage(title string, err error) string {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		return fmt.Sprintf("no movie matches %q; try search_titles", title)
	case errors.Is(err, recommend.ErrEmptyDataset):
		return "no movies loaded"
	default:
		return fmt.Sprintf("recommendation failed: %v", err)
	}
}
