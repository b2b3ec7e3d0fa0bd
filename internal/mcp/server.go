// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/curatehq/curate/application/service"
	"github.com/curatehq/curate/domain/item"
)

// Searcher provides semantic retrieval for MCP tools.
type Searcher interface {
	Search(ctx context.Context, ownerID, query string) ([]item.Item, error)
}

// Lister provides collection browsing for MCP tools.
type Lister interface {
	ListItems(ctx context.Context, ownerID string, page, pageSize int) (service.ItemPage, error)
}

// Server wraps the MCP server with curate-specific tools. All tools operate
// on behalf of a single configured owner.
type Server struct {
	mcpServer *server.MCPServer
	retrieval Searcher
	library   Lister
	ownerID   string
	logger    *slog.Logger
}

// NewServer creates an MCP server bound to the given owner.
func NewServer(retrieval Searcher, library Lister, ownerID, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		retrieval: retrieval,
		library:   library,
		ownerID:   ownerID,
		logger:    logger,
	}

	mcpServer := server.NewMCPServer(
		"curate",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	s.mcpServer = mcpServer
	return s
}

// MCPServer returns the underlying MCP server for transport mounting.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	searchTool := mcp.NewTool("search_media",
		mcp.WithDescription("Semantically search the saved media collection"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language description of the media to find"),
		),
	)
	mcpServer.AddTool(searchTool, s.handleSearch)

	listTool := mcp.NewTool("list_media",
		mcp.WithDescription("List saved media items, most recently saved first"),
		mcp.WithNumber("page",
			mcp.Description("Page number, starting at 1 (default: 1)"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Items per page, at most 8 (default: 8)"),
		),
	)
	mcpServer.AddTool(listTool, s.handleList)
}

// itemResult is the tool-facing projection of an item.
type itemResult struct {
	ID           string   `json:"id"`
	Link         string   `json:"link"`
	Kind         string   `json:"kind"`
	Title        string   `json:"title"`
	FetchedTitle string   `json:"fetched_title,omitempty"`
	Description  string   `json:"description,omitempty"`
	TagIDs       []string `json:"tag_ids,omitempty"`
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	items, err := s.retrieval.Search(ctx, s.ownerID, query)
	if err != nil {
		s.logger.Error("mcp search failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return formatItems(items)
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := request.GetInt("page", 1)
	pageSize := request.GetInt("page_size", item.MaxPageSize)

	result, err := s.library.ListItems(ctx, s.ownerID, page, pageSize)
	if err != nil {
		s.logger.Error("mcp list failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}

	return formatItems(result.Items())
}

func formatItems(items []item.Item) (*mcp.CallToolResult, error) {
	results := make([]itemResult, 0, len(items))
	for _, it := range items {
		r := itemResult{
			ID:     it.ID(),
			Link:   it.Link(),
			Kind:   string(it.Kind()),
			Title:  it.Title(),
			TagIDs: it.TagIDs(),
		}
		if meta, ok := it.Metadata(); ok {
			r.FetchedTitle = meta.Title()
			r.Description = meta.Description()
		}
		results = append(results, r)
	}

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
