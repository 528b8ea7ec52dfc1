// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes stickpad tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/noteservice"
	"github.com/marwold/stickpad/internal/search"
)

// Server wraps the MCP server with stickpad tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all stickpad tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"stickpad",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by title, content, and tags in the current workspace."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithBoolean("archived", mcp.Description("Include archived notes")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read one note as Markdown."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note. For text notes, a Markdown body may be supplied; "+
			"a leading level-one heading becomes the title."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Note type: "+typeList())),
		mcp.WithString("content", mcp.Description("Markdown body for text notes")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes in the current workspace."),
		mcp.WithBoolean("archived", mcp.Description("List the archived collection instead")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("archive_note",
		mcp.WithDescription("Move a note to the archive."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.archiveNote)

	s.mcp.AddTool(mcp.NewTool("todo_progress",
		mcp.WithDescription("Report a todo note's checklist progress as done/total (pct%)."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Todo note id")),
	), s.todoProgress)

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

func typeList() string {
	names := make([]string, len(models.AllTypes))
	for i, t := range models.AllTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := search.DefaultOptions()
	opts.IncludeArchived = req.GetBool("archived", false)

	type hit struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		Title    string `json:"title"`
		Excerpt  string `json:"excerpt,omitempty"`
		Archived bool   `json:"archived"`
	}
	results := s.svc.Search(query, opts)
	hits := make([]hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, hit{
			ID:       r.Note.ID,
			Type:     string(r.Note.Type),
			Title:    r.Note.DisplayTitle(),
			Excerpt:  r.Excerpt,
			Archived: r.Archived,
		})
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	md, err := s.svc.ExportMarkdown(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(md), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !models.ValidType(models.Type(typ)) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown note type %q (want one of: %s)", typ, typeList())), nil
	}
	content := req.GetString("content", "")

	var n *models.Note
	if models.Type(typ) == models.TypeText && content != "" {
		n, err = s.svc.ImportMarkdown("", []byte(content))
	} else {
		n, err = s.svc.CreateNote(models.Type(typ), 240, 200)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %s note %s", n.Type, n.ID)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	archived := req.GetBool("archived", false)

	notes := s.svc.ListNotes()
	if archived {
		notes = s.svc.ListArchived()
	}
	type item struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Title string `json:"title"`
	}
	items := make([]item, 0, len(notes))
	for _, n := range notes {
		items = append(items, item{ID: n.ID, Type: string(n.Type), Title: n.DisplayTitle()})
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) archiveNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Archive(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("archived %s", id)), nil
}

func (s *Server) todoProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	progress, err := s.svc.TodoProgress(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(progress), nil
}
