// Package mcp serves canonical rules over the Model Context Protocol using
// mcp-go (github.com/mark3labs/mcp-go).
//
// Every rule in the canonical directory whose metadata has a "description"
// entry becomes one tool. Calling the tool returns the rule body, so an
// assistant can pull a rule into context only when it applies. Two fixed
// tools complete the set:
//
//   - get_instructions returns the combined instructions document, the same
//     text generation writes to CLAUDE.md, AGENTS.md and GEMINI.md
//   - list_rules returns every rule tool with its description
//
// # Usage
//
// The server is started as a subprocess by an assistant that supports MCP:
//
//	agentsync serve
//
// It reads JSON-RPC requests from stdin and writes responses to stdout until
// it receives EOF or is terminated. Rules are read once at start-up.
//
// # Tool names
//
// A rule's "name" metadata entry, or else its file name without extension,
// is reduced with fileops.SanitizeIdentifier. Hyphens become underscores
// and collisions get a numeric suffix (go_style, go_style_1, ...).
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
