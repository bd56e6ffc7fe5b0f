// Package mcptools exposes idea generation as Model Context Protocol tools.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/thinkscotty/ideagen/internal/export"
	"github.com/thinkscotty/ideagen/internal/ideas"
	"github.com/thinkscotty/ideagen/internal/models"
)

// IdeaSource produces a batch for a niche and audience. *ideas.Generator
// satisfies it.
type IdeaSource interface {
	Generate(ctx context.Context, niche, targetAudience string) (ideas.Batch, error)
}

// Deps holds the MCP server's collaborators.
type Deps struct {
	Ideas   IdeaSource
	Version string
	// Now defaults to time.Now; export headers use it for the date.
	Now func() time.Time
}

func NewServer(deps Deps) *server.MCPServer {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := server.NewMCPServer(
		"ideagen",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithInstructions("ideagen generates content ideas (blog posts, videos, tweets) for a creator niche and audience."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_ideas",
			mcp.WithDescription("Generate content ideas for a creator niche and target audience. Returns a JSON object with ideas and the model used."),
			mcp.WithString("niche", mcp.Description("Creator niche, e.g. 'home cooking'"), mcp.Required()),
			mcp.WithString("target_audience", mcp.Description("Who the content is for, e.g. 'college students'"), mcp.Required()),
			mcp.WithString("format", mcp.Description("'json' (default) or 'text' for the plain-text export layout")),
		),
		generateIdeas(deps),
	)

	return s
}

func generateIdeas(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		niche, err := req.RequireString("niche")
		if err != nil || strings.TrimSpace(niche) == "" {
			return toolError("niche is required"), nil
		}
		audience, err := req.RequireString("target_audience")
		if err != nil || strings.TrimSpace(audience) == "" {
			return toolError("target_audience is required"), nil
		}
		format := req.GetString("format", "json")

		batch, err := deps.Ideas.Generate(ctx, niche, audience)
		if err != nil {
			return toolError(fmt.Sprintf("generation failed (%s): %v", ideas.Kind(err), err)), nil
		}

		switch format {
		case "text":
			blocks := export.IdeasBlocks(export.IdeasTitle, deps.Now().Format(export.DateLayout), batch.Ideas)
			return toolText(export.Render(blocks)), nil
		case "json", "":
			out, err := json.Marshal(struct {
				Ideas []models.Idea `json:"ideas"`
				Model string        `json:"model"`
			}{batch.Ideas, batch.Model})
			if err != nil {
				return toolError(fmt.Sprintf("encode result: %v", err)), nil
			}
			return toolText(string(out)), nil
		default:
			return toolError(fmt.Sprintf("unknown format %q, want json or text", format)), nil
		}
	}
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

// Serve speaks MCP over the given streams until ctx is done. The CLI passes
// os.Stdin and os.Stdout.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	err := server.NewStdioServer(s).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
