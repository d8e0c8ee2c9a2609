// Package mcpserver exposes the navigation core as MCP tools over stdio so
// an LLM can drive and inspect the app's navigation.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tabnav/internal/navservice"
	"github.com/starford/tabnav/internal/route"
)

const formatURI = "tabnav://deep-link-format"

// Server wraps the MCP server with navigation tools.
type Server struct {
	mcp *server.MCPServer
	svc *navservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *navservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"tabnav",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("open_deep_link",
		mcp.WithDescription("Open a deep link such as myapp://tab3/screen2edit?id=42. "+
			"Read the tabnav://deep-link-format resource for the accepted URLs. "+
			"Returns the navigation state after the link is handled."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Deep link URL")),
	), s.openDeepLink)

	s.mcp.AddTool(mcp.NewTool("get_navigation_state",
		mcp.WithDescription("Return the active tab, the session flag, every domain's stack and the Tab3 modals."),
	), s.getState)

	s.mcp.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Navigate a domain to a screen, rebuilding the chain from the domain root and selecting the tab."),
		mcp.WithString("domain", mcp.Required(), mcp.Enum("auth", "tab1", "tab2", "tab3", "tab4")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Screen tag, e.g. screen2Detail")),
		mcp.WithString("param", mcp.Description("Screen parameter such as an item or customer id")),
	), s.navigate)

	s.mcp.AddTool(mcp.NewTool("pop",
		mcp.WithDescription("Remove the top screen of a domain's stack."),
		mcp.WithString("domain", mcp.Required(), mcp.Enum("auth", "tab1", "tab2", "tab3", "tab4")),
	), s.pop)

	s.mcp.AddTool(mcp.NewTool("present_modal",
		mcp.WithDescription("Present a Tab3 modal."),
		mcp.WithString("style", mcp.Required(), mcp.Enum("sheet", "fullscreen")),
		mcp.WithString("modal", mcp.Required(), mcp.Enum(route.TagCreateItem, route.TagFilter)),
	), s.presentModal)

	s.mcp.AddTool(mcp.NewTool("dismiss_modal",
		mcp.WithDescription("Dismiss the Tab3 modal in the given slot."),
		mcp.WithString("style", mcp.Required(), mcp.Enum("sheet", "fullscreen")),
	), s.dismissModal)

	s.mcp.AddTool(mcp.NewTool("push_edit",
		mcp.WithDescription("Open the Tab3 edit screen for an item on top of the current Tab3 stack. Returns the new Tab3 path."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id, e.g. 42")),
	), s.pushEdit)

	s.mcp.AddTool(mcp.NewTool("logout",
		mcp.WithDescription("End the session. Every stack is cleared and both modals are dismissed."),
	), s.logout)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Deep Link Format",
			mcp.WithResourceDescription("URLs, tokens and modals understood by the navigation core."),
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

func (s *Server) openDeepLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st, err := s.svc.OpenURL(ctx, raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not handled: %s: %v", raw, err)), nil
	}
	return jsonResult(st), nil
}

func (s *Server) getState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.svc.State(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st), nil
}

func (s *Server) navigate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := req.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tok := route.Token{Tag: tag}
	if p, pErr := req.RequireString("param"); pErr == nil {
		tok.Param = p
	}

	path, err := s.svc.Navigate(ctx, domain, tok)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(path), nil
}

func (s *Server) pop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := req.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := s.svc.Pop(ctx, domain)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(path), nil
}

func (s *Server) presentModal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	style, err := req.RequireString("style")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	modal, err := req.RequireString("modal")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.PresentModal(ctx, style, modal); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("presented %s as %s", modal, style)), nil
}

func (s *Server) dismissModal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	style, err := req.RequireString("style")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DismissModal(ctx, style); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("dismissed " + style), nil
}

func (s *Server) pushEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := s.svc.PushEdit(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(path), nil
}

func (s *Server) logout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.svc.Logout(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("logged out"), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     DeepLinkFormat,
		},
	}, nil
}
