package mcp

import (
	"context"
	"fmt"
	"strings"

	"agentsync/internal/canonical"
	"agentsync/internal/logging"
	"agentsync/internal/transform"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Fixed tool names.
const (
	ToolGetInstructions = "get_instructions"
	ToolListRules       = "list_rules"
)

// Server exposes a canonical directory as MCP tools.
type Server struct {
	dir       string
	version   string
	logger    *logging.AppLogger
	cfg       *canonical.Config
	tools     []RuleTool
	mcpServer *server.MCPServer
}

// NewServer creates a server for the canonical directory dir. Nothing is
// read until Build.
func NewServer(dir, version string, logger *logging.AppLogger) *Server {
	return &Server{dir: dir, version: version, logger: logger}
}

// Build reads the canonical directory and registers every tool.
func (s *Server) Build() *server.MCPServer {
	s.cfg = canonical.NewReader(s.logger).Read(s.dir)
	s.tools = BuildTools(s.cfg.Rules, s.logger)

	s.mcpServer = server.NewMCPServer("agentsync", s.version,
		server.WithToolCapabilities(false),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolGetInstructions,
			mcp.WithDescription("Project instructions shared by every coding assistant, including all rules and the list of commands."),
		),
		s.handleGetInstructions,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(ToolListRules,
			mcp.WithDescription("List the project rules available as tools, with what each one covers."),
		),
		s.handleListRules,
	)
	for _, tool := range s.tools {
		s.mcpServer.AddTool(
			mcp.NewTool(tool.Name, mcp.WithDescription(tool.Description)),
			s.ruleHandler(tool),
		)
		s.logger.Debug("Registered rule tool", "tool", tool.Name, "file", tool.Rule.Filename)
	}

	s.logger.Info("MCP server ready", "dir", s.dir, "rule_tools", len(s.tools))
	return s.mcpServer
}

// Start builds the server and serves it over stdio until stdin closes.
func (s *Server) Start() error {
	if err := server.ServeStdio(s.Build()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Tools returns the rule tools registered by Build.
func (s *Server) Tools() []RuleTool {
	return s.tools
}

func (s *Server) handleGetInstructions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(transform.CombineInstructions(s.cfg)), nil
}

func (s *Server) handleListRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if len(s.tools) == 0 {
		return mcp.NewToolResultText("No rules with a description are available."), nil
	}
	var sb strings.Builder
	for _, tool := range s.tools {
		fmt.Fprintf(&sb, "- %s: %s\n", tool.Name, tool.Description)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) ruleHandler(tool RuleTool) server.ToolHandlerFunc {
	body := strings.TrimSpace(tool.Rule.Body)
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.logger.Debug("Rule tool called", "tool", tool.Name)
		return mcp.NewToolResultText(body), nil
	}
}
