package providers

import (
	"fmt"
	"path"
	"strings"
)

type RenameOption int

const (
	// RenameOptionNone keeps file names as they are
	RenameOptionNone RenameOption = iota
	// RenameOptionSuffix replaces the extension with NewName
	RenameOptionSuffix
)

// Kind says which payload a Target receives.
type Kind int

const (
	KindInstructions Kind = iota
	KindRules
	KindCommands
	KindDirectServers
	KindWrappedServers
	KindSplitServers
)

func (k Kind) String() string {
	switch k {
	case KindInstructions:
		return "instructions"
	case KindRules:
		return "rules"
	case KindCommands:
		return "commands"
	case KindDirectServers:
		return "servers (direct)"
	case KindWrappedServers:
		return "servers (wrapped)"
	case KindSplitServers:
		return "servers (split)"
	default:
		return "unknown"
	}
}

// Target is one file or directory a provider reads, relative to the project root.
type Target struct {
	Kind Kind

	// Path is a file for single-file kinds and a directory (with trailing
	// slash) for KindRules and KindCommands.
	Path string

	// Pattern is the glob matched inside Path for directory kinds.
	Pattern string

	// Rename option specifies how files copied into Path are renamed
	RenameOption RenameOption

	// NewName is the extension used by RenameOptionSuffix
	NewName string
}

type Provider struct {
	// ID is the stable identifier used in configuration
	ID string

	// Name of the assistant
	Name string

	// Explanation
	Explanation string

	// Targets written during generation
	Targets []Target
}

var (
	ClaudeInstructions = Target{Kind: KindInstructions, Path: "CLAUDE.md"}
	AgentsInstructions = Target{Kind: KindInstructions, Path: "AGENTS.md"}
	GeminiInstructions = Target{Kind: KindInstructions, Path: "GEMINI.md"}

	// ClaudeServers receives a direct copy of the canonical mcp.json.
	ClaudeServers = Target{Kind: KindDirectServers, Path: ".mcp.json"}

	// GeminiSettings wraps the server list under "mcpServers" next to the
	// user's other settings.
	GeminiSettings = Target{Kind: KindWrappedServers, Path: ".gemini/settings.json"}

	// OpencodeConfig holds the split-array server schema under "mcp".
	OpencodeConfig = Target{Kind: KindSplitServers, Path: "opencode.json"}

	// OpencodeConfigJSONC is the commented variant opencode also loads.
	OpencodeConfigJSONC = Target{Kind: KindSplitServers, Path: "opencode.jsonc"}

	CursorRules = Target{
		Kind:         KindRules,
		Path:         ".cursor/rules/",
		Pattern:      "*.mdc",
		RenameOption: RenameOptionSuffix,
		NewName:      ".mdc",
	}

	// ClaudeCommands is only read during migration.
	ClaudeCommands = Target{
		Kind:         KindCommands,
		Path:         ".claude/commands/",
		Pattern:      "*.md",
		RenameOption: RenameOptionNone,
	}
)

var Providers = []Provider{
	{
		// https://docs.anthropic.com/en/docs/claude-code/memory
		ID:          "claude",
		Name:        "Claude Code",
		Explanation: "Reads CLAUDE.md as project memory and .mcp.json for project-scoped MCP servers.",
		Targets:     []Target{ClaudeInstructions, ClaudeServers},
	},
	{
		// https://opencode.ai/docs/rules/
		ID:          "opencode",
		Name:        "opencode",
		Explanation: "Reads AGENTS.md for instructions and the \"mcp\" section of opencode.json.",
		Targets:     []Target{AgentsInstructions, OpencodeConfig},
	},
	{
		// https://github.com/google-gemini/gemini-cli
		ID:          "gemini",
		Name:        "Gemini CLI",
		Explanation: "Reads GEMINI.md for context and the \"mcpServers\" key of .gemini/settings.json.",
		Targets:     []Target{GeminiInstructions, GeminiSettings},
	},
	{
		// https://docs.cursor.com/en/context/rules
		ID:          "cursor",
		Name:        "Cursor",
		Explanation: "Reads one .mdc file per rule from .cursor/rules, frontmatter included.",
		Targets:     []Target{CursorRules},
	},
}

// IDs returns the identifiers of every known provider.
func IDs() []string {
	ids := make([]string, 0, len(Providers))
	for _, p := range Providers {
		ids = append(ids, p.ID)
	}
	return ids
}

// Lookup returns the provider with the given id.
func Lookup(id string) (Provider, error) {
	for _, p := range Providers {
		if p.ID == id {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("unsupported provider: %s", id)
}

// Select resolves ids to providers, keeping the order of Providers. An empty
// ids slice selects every provider.
func Select(ids []string) ([]Provider, error) {
	if len(ids) == 0 {
		return Providers, nil
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, err := Lookup(id); err != nil {
			return nil, err
		}
		wanted[id] = true
	}

	var selected []Provider
	for _, p := range Providers {
		if wanted[p.ID] {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

// Targets flattens the targets of providers.
func Targets(providers []Provider) []Target {
	var targets []Target
	for _, p := range providers {
		targets = append(targets, p.Targets...)
	}
	return targets
}

// FileName applies the rename option to currentName.
func (t Target) FileName(currentName string) string {
	if t.RenameOption != RenameOptionSuffix || t.NewName == "" {
		return currentName
	}
	return removeExtension(currentName) + t.NewName
}

// GenerateFullPath joins Path with the renamed file name. The result is
// slash separated and relative to the project root.
func (t Target) GenerateFullPath(currentName string) string {
	return path.Join(t.Path, t.FileName(currentName))
}

// removeExtension removes the file extension from a filename
func removeExtension(filename string) string {
	if len(filename) == 0 {
		return filename
	}

	lastDot := strings.LastIndexByte(filename, '.')
	lastSep := strings.LastIndexAny(filename, `/\`)

	// If no dot found, or dot is at the beginning (hidden file), return as is
	if lastDot <= lastSep+1 {
		return filename
	}

	return filename[:lastDot]
}
