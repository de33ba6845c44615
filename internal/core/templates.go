package core

import (
	"path"

	"agentsync/internal/canonical"
)

const (
	templateRuleName    = "example.md"
	templateCommandName = "example.md"

	templateInstructions = `# Project Instructions

Describe the project here: what it does, how it is built and tested, and
the conventions every assistant should follow.
`

	templateRule = `---
description: Example rule
globs: **/*.go
alwaysApply: false
---

Explain what this rule requires and when it applies. Rules with a
description are also served as tools by "agentsync serve".
`

	templateCommand = `# Example command

Describe the steps this command performs.
`
)

// templatePlan is the content written by Init when no provider files exist.
func templatePlan() ([]plannedFile, error) {
	servers, err := canonical.EncodeServers(canonical.ServerList{})
	if err != nil {
		return nil, err
	}
	return []plannedFile{
		{rel: canonical.InstructionsFile, data: []byte(templateInstructions)},
		{rel: path.Join(canonical.RulesDir, templateRuleName), data: []byte(templateRule)},
		{rel: path.Join(canonical.CommandsDir, templateCommandName), data: []byte(templateCommand)},
		{rel: canonical.ServersFile, data: servers},
	}, nil
}
