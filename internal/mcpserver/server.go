// Package mcpserver provides an MCP (Model Context Protocol) server
// exposing outline tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mdxoutline/internal/linkref"
	"github.com/starford/mdxoutline/internal/outlineservice"
)

const (
	formatURI         = "mdxoutline://outline-format"
	defaultMaxResults = 20
)

// Server wraps the MCP server with outline tools.
type Server struct {
	mcp      *server.MCPServer
	svc      *outlineservice.Service
	selector string
}

// New creates a new MCP server. selector is the link selector clicks are
// matched against; open_link builds anchors that satisfy it.
func New(svc *outlineservice.Service, selector string) *Server {
	s := &Server{svc: svc, selector: selector}

	s.mcp = server.NewMCPServer(
		"mdxoutline",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_outline",
		mcp.WithDescription("Return the mirrored heading outline of a document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative document path (e.g. notes/guide.mdx)")),
	), s.getOutline)

	s.mcp.AddTool(mcp.NewTool("list_outlines",
		mcp.WithDescription("List every indexed document with its heading count."),
	), s.listOutlines)

	s.mcp.AddTool(mcp.NewTool("search_headings",
		mcp.WithDescription("Search heading text across all indexed documents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of hits (default 20)")),
	), s.searchHeadings)

	s.mcp.AddTool(mcp.NewTool("reindex",
		mcp.WithDescription("Re-mirror one document's outline, or every document when path is empty."),
		mcp.WithString("path", mcp.Description("Optional document path")),
	), s.reindex)

	s.mcp.AddTool(mcp.NewTool("open_link",
		mcp.WithDescription("Follow a heading link in the editor. "+
			"Read the outline format resource for the link syntax."),
		mcp.WithString("href", mcp.Required(), mcp.Description("Link target, e.g. guide#Install or #Install")),
		mcp.WithString("text", mcp.Description("Visible link text, used when href has no fragment")),
	), s.openLink)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Outline Format",
			mcp.WithResourceDescription("Cache artifact layout and heading link syntax."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) getOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.svc.GetOutline(ctx, path)
	if err != nil {
		if outlineservice.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("no outline for %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out), nil
}

func (s *Server) listOutlines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListOutlines(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items), nil
}

func (s *Server) searchHeadings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", defaultMaxResults)
	if limit <= 0 {
		limit = defaultMaxResults
	}
	results, err := s.svc.SearchHeadings(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results), nil
}

func (s *Server) reindex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		if err := s.svc.ReindexAll(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("reindexed all documents"), nil
	}
	out, err := s.svc.Reindex(ctx, path)
	if err != nil {
		if outlineservice.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("not a managed document: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out), nil
}

func (s *Server) openLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	href, err := req.RequireString("href")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := req.GetString("text", "")
	res := s.svc.Click(ctx, linkref.NewAnchor(s.selector, href, text))
	return jsonResult(res), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     OutlineFormat,
		},
	}, nil
}
