// Package transform turns a canonical Config into provider payloads. Nothing
// in this package touches the filesystem.
package transform

import (
	"strings"
	"unicode"

	"agentsync/internal/canonical"
	"agentsync/internal/frontmatter"
)

// CommandsHeader introduces the command list in the combined instructions.
const CommandsHeader = "## Commands"

// RuleOutput is one per-rule provider file. The provider file name is
// derived from Source by the rules target.
type RuleOutput struct {
	// Source is the canonical file name.
	Source  string
	Content string
}

// Output is every payload derived from one Config.
type Output struct {
	// Instructions is written unchanged to every instruction target.
	Instructions string
	Rules        []RuleOutput
	Servers      canonical.ServerList
}

// Transform maps cfg to provider payloads.
func Transform(cfg *canonical.Config) Output {
	servers := cfg.Servers
	if servers == nil {
		servers = canonical.ServerList{}
	}
	return Output{
		Instructions: CombineInstructions(cfg),
		Rules:        ProviderRules(cfg.Rules),
		Servers:      servers,
	}
}

// CombineInstructions builds the single instructions document: the
// instructions text, then every rule body without metadata, then a bullet
// list of commands. The result is trimmed.
func CombineInstructions(cfg *canonical.Config) string {
	var sb strings.Builder
	sb.WriteString(cfg.Instructions)

	if len(cfg.Rules) > 0 {
		sb.WriteString("\n\n")
		for _, rule := range cfg.Rules {
			sb.WriteString(rule.Body)
			sb.WriteString("\n\n")
		}
	}

	if len(cfg.Commands) > 0 {
		text := strings.TrimRightFunc(sb.String(), unicode.IsSpace)
		sb.Reset()
		sb.WriteString(text)
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(CommandsHeader)
		sb.WriteString("\n\n")
		for _, name := range cfg.Commands {
			sb.WriteString("- ")
			sb.WriteString(name)
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String())
}

// ProviderRules renders each rule with its metadata re-attached.
func ProviderRules(rules []canonical.RuleFile) []RuleOutput {
	out := make([]RuleOutput, 0, len(rules))
	for _, rule := range rules {
		out = append(out, RuleOutput{
			Source:  rule.Filename,
			Content: frontmatter.Serialize(rule.Metadata, rule.Body),
		})
	}
	return out
}
