package mcp

import (
	"fmt"
	"strings"

	"agentsync/internal/canonical"
	"agentsync/internal/logging"
	"agentsync/pkg/fileops"
)

// Metadata keys read from rules.
const (
	MetaDescription = "description"
	MetaName        = "name"
	MetaGlobs       = "globs"
	MetaApplyTo     = "applyTo"
)

const (
	// ApplyToFormat labels the file patterns in tool descriptions.
	ApplyToFormat = "apply to"

	fallbackToolName = "rule_file"
	maxToolNameLen   = 64
)

// RuleTool is a rule exposed as an MCP tool.
type RuleTool struct {
	Name        string
	Description string
	Rule        canonical.RuleFile
}

// BuildTools turns rules with a description into tools with unique names.
// Rules without a description are skipped.
func BuildTools(rules []canonical.RuleFile, logger *logging.AppLogger) []RuleTool {
	taken := map[string]bool{
		ToolGetInstructions: true,
		ToolListRules:       true,
	}

	var tools []RuleTool
	for _, rule := range rules {
		description := strings.TrimSpace(rule.Metadata.String(MetaDescription))
		if description == "" {
			logger.Debug("Rule has no description, not exposed as a tool", "file", rule.Filename)
			continue
		}

		name := uniqueName(baseToolName(rule), taken)
		taken[name] = true
		tools = append(tools, RuleTool{
			Name:        name,
			Description: toolDescription(description, rule),
			Rule:        rule,
		})
	}

	logger.Debug("Rule tools built", "rules", len(rules), "tools", len(tools))
	return tools
}

func baseToolName(rule canonical.RuleFile) string {
	source := rule.Metadata.String(MetaName)
	if source == "" {
		source = strings.TrimSuffix(rule.Filename, canonical.RuleExt)
	}

	name, err := fileops.SanitizeIdentifier(source, maxToolNameLen)
	if err != nil {
		return fallbackToolName
	}
	return strings.ReplaceAll(name, "-", "_")
}

func uniqueName(base string, taken map[string]bool) string {
	name := base
	for i := 1; taken[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}

// toolDescription appends the rule's file patterns, taken from "globs" or
// "applyTo", to description.
func toolDescription(description string, rule canonical.RuleFile) string {
	patterns := rule.Metadata.String(MetaGlobs)
	if patterns == "" {
		patterns = rule.Metadata.String(MetaApplyTo)
	}
	if patterns == "" {
		return description
	}
	return fmt.Sprintf("%s (%s: %s)", description, ApplyToFormat, patterns)
}
