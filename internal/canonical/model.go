// Package canonical holds the in-memory model of the canonical source
// directory and the code that reads it from disk.
//
// The canonical directory layout is:
//
//	.agentsync/
//	  instructions.md   free text
//	  rules/*.md        frontmatter + body
//	  commands/*.md     one command per file, name = file name without extension
//	  mcp.json          {"mcpServers": {name: {type?, command, args?, env?}}}
package canonical

import (
	"encoding/json"
	"slices"

	"agentsync/internal/frontmatter"
)

const (
	// DefaultDir is the canonical directory name relative to the project root.
	DefaultDir = ".agentsync"

	InstructionsFile = "instructions.md"
	RulesDir         = "rules"
	CommandsDir      = "commands"
	ServersFile      = "mcp.json"

	// RuleExt and CommandExt are the extensions scanned in RulesDir and CommandsDir.
	RuleExt    = ".md"
	CommandExt = ".md"
)

// Transport tags used in the canonical server list.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config is the unified representation of a canonical directory.
type Config struct {
	Instructions string
	Rules        []RuleFile
	Commands     []string
	Servers      ServerList
}

// RuleFile is one file from RulesDir.
type RuleFile struct {
	Metadata *frontmatter.Metadata
	// Body is the content after the metadata block, leading newline included.
	Body     string
	Filename string
}

// ServerSpec describes how a provider launches one MCP server.
type ServerSpec struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	// URL is only meaningful for remote servers.
	URL string `json:"url,omitempty"`

	// Extra holds every other field of the entry (cwd, headers, timeout...)
	// as raw JSON. It is written back unchanged after the known fields.
	Extra map[string]json.RawMessage `json:"-"`
}

// ServerList maps server names to their specs.
type ServerList map[string]ServerSpec

// Names returns the server names in sorted order.
func (l ServerList) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewConfig returns a Config with every field at its empty value.
func NewConfig() *Config {
	return &Config{
		Rules:    []RuleFile{},
		Commands: []string{},
		Servers:  ServerList{},
	}
}
