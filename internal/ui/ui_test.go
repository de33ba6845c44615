package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlainReporter() (*Reporter, *bytes.Buffer) {
	DisableColor()
	var buf bytes.Buffer
	return NewReporter(&buf), &buf
}

func TestReporter_Messages(t *testing.T) {
	r, buf := newPlainReporter()

	r.Title("agentsync run")
	r.Success("Generated 3 files")
	r.Warning("Left .gemini/settings.json untouched")
	r.Error(errors.New("canonical directory not found"))

	assert.Equal(t, "agentsync run\n"+
		"✓ Generated 3 files\n"+
		"! Left .gemini/settings.json untouched\n"+
		"✗ canonical directory not found\n", buf.String())
}

func TestReporter_Files(t *testing.T) {
	r, buf := newPlainReporter()

	r.Files("Written:", []string{"CLAUDE.md", ".cursor/rules/go.mdc"})
	r.Files("Skipped:", nil)

	out := buf.String()
	assert.Contains(t, out, "Written:\n")
	assert.Contains(t, out, "  - CLAUDE.md")
	assert.Contains(t, out, "  - .cursor/rules/go.mdc")
	assert.NotContains(t, out, "Skipped:")
}

func TestReporter_Duplicates(t *testing.T) {
	r, buf := newPlainReporter()

	r.Duplicates(nil)
	assert.Empty(t, buf.String())

	r.Duplicates([]string{"git", "fs"})
	assert.Contains(t, buf.String(), "2 MCP server(s)")
	assert.Contains(t, buf.String(), "git, fs")
}

func TestReporter_WrapsLongMessages(t *testing.T) {
	r, buf := newPlainReporter()

	r.Warning(strings.Repeat("word ", 40))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "  "), "continuation line %q should be indented", line)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Project\n\nUse gofmt.\n\n## Commands\n\n- review\n", 60, PlainStyle)
	require.NoError(t, err)

	assert.Contains(t, out, "Project")
	assert.Contains(t, out, "Use gofmt.")
	assert.Contains(t, out, "review")
}

func TestDetectGlamourStyle_EnvOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "light")
	assert.Equal(t, "light", DetectGlamourStyle(10*time.Millisecond))
}
