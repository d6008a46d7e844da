// Package mcptools exposes figure rendering as MCP tools so a drafting agent
// can preview figures and expand its own markers before submitting a draft.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/markers"
	"github.com/matzehuels/figurine/pkg/pipeline"
	"github.com/matzehuels/figurine/pkg/render"
	"github.com/matzehuels/figurine/pkg/render/diagram"
)

// Tool names.
const (
	ToolRenderDiagram = "render_diagram"
	ToolRenderChart   = "render_chart"
	ToolExpand        = "expand_markers"
	ToolListKinds     = "list_figure_kinds"
)

// NewServer creates an MCP server named figurine with every tool registered.
func NewServer(version string, runner *pipeline.Runner, defaults pipeline.Options) *server.MCPServer {
	s := server.NewMCPServer("figurine", version)
	Register(s, runner, defaults)
	return s
}

// Register registers all tools with the MCP server.
func Register(s *server.MCPServer, runner *pipeline.Runner, defaults pipeline.Options) {
	h := &handlers{runner: runner, defaults: defaults}

	s.AddTool(mcp.NewTool(ToolRenderDiagram,
		mcp.WithDescription("Renders a diagram as SVG. Kinds: comparison, progression, stack, convergence, venn. Fields are pipe-delimited exactly as in a [DIAGRAM: kind | ...] marker."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Diagram kind"),
		),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description("Pipe-delimited fields, e.g. \"Monolith | Microservices | Deploy:one unit:many units\""),
		),
	), h.renderDiagram)

	s.AddTool(mcp.NewTool(ToolRenderChart,
		mcp.WithDescription("Renders a bar or pie chart as SVG."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("bar or pie"),
		),
		mcp.WithString("title",
			mcp.Description("Chart title"),
		),
		mcp.WithString("series",
			mcp.Required(),
			mcp.Description("Pipe-delimited label=value pairs, e.g. \"Go=10 | Rust=5\""),
		),
	), h.renderChart)

	s.AddTool(mcp.NewTool(ToolExpand,
		mcp.WithDescription("Replaces every [DIAGRAM: ...] and [CHART: ...] marker in a markdown draft with an inline SVG figure and reports markers that could not be drawn."),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("The markdown draft"),
		),
		mcp.WithString("slug",
			mcp.Description("Post slug"),
		),
	), h.expand)

	s.AddTool(mcp.NewTool(ToolListKinds,
		mcp.WithDescription("Lists the figure kinds that can be rendered."),
	), h.listKinds)
}

type handlers struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
}

func (h *handlers) renderDiagram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, ok := request.Params.Arguments["kind"].(string)
	if !ok || kind == "" {
		return newToolResultError("kind is required"), nil
	}
	fields, ok := request.Params.Arguments["fields"].(string)
	if !ok {
		return newToolResultError("fields is required"), nil
	}
	dk, known := diagram.ParseKind(kind)
	if !known {
		return newToolResultError(fmt.Sprintf("unknown diagram kind %q", kind)), nil
	}
	return h.render(ctx, render.Spec{Kind: string(dk), Fields: diagram.SplitFields(fields)})
}

func (h *handlers) renderChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, _ := request.Params.Arguments["kind"].(string)
	title, _ := request.Params.Arguments["title"].(string)
	series, ok := request.Params.Arguments["series"].(string)
	if !ok || series == "" {
		return newToolResultError("series is required"), nil
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != render.KindBar && kind != render.KindPie {
		return newToolResultError(fmt.Sprintf("unknown chart kind %q", kind)), nil
	}
	entries, err := markers.ParseSeries(series)
	if err != nil {
		return newToolResultError(errors.UserMessage(err)), nil
	}
	return h.render(ctx, render.Spec{Kind: kind, Title: strings.TrimSpace(title), Series: entries})
}

func (h *handlers) render(ctx context.Context, spec render.Spec) (*mcp.CallToolResult, error) {
	fig, err := h.runner.Render(ctx, spec, h.defaults)
	if errors.IsAbsent(err) {
		return newToolResultError(fmt.Sprintf("%s: %s", errors.GetCode(err), errors.UserMessage(err))), nil
	}
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(fig.SVG)), nil
}

func (h *handlers) expand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md, ok := request.Params.Arguments["markdown"].(string)
	if !ok {
		return newToolResultError("markdown is required"), nil
	}
	opts := h.defaults
	opts.Mode = pipeline.ModeInline
	opts.Markdown = md
	opts.Slug, _ = request.Params.Arguments["slug"].(string)

	res, err := h.runner.Expand(ctx, opts)
	if err != nil {
		return newToolResultError(errors.UserMessage(err)), nil
	}
	return mcp.NewToolResultText(res.Markdown + "\n\n" + summary(res)), nil
}

func (h *handlers) listKinds(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(render.Kinds(), "\n")), nil
}

// summary lists dropped markers so the agent can fix them.
func summary(res *pipeline.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<!-- figures: %d rendered, %d dropped", res.Stats.Rendered, res.Stats.Dropped)
	for _, f := range res.Figures {
		if !f.Rendered() {
			fmt.Fprintf(&b, "\n  %s: %s", f.Dropped, f.Marker)
		}
	}
	b.WriteString(" -->")
	return b.String()
}

func newToolResultError(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: message,
			},
		},
		IsError: true,
	}
}
