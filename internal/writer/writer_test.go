package writer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"agentsync/internal/canonical"
	"agentsync/internal/logging"
	"agentsync/internal/providers"
	"agentsync/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutput() transform.Output {
	return transform.Output{
		Instructions: "Main\n\nRule A",
		Rules: []transform.RuleOutput{
			{Source: "a.md", Content: "---\ndescription: A\n---\n\nRule A"},
		},
		Servers: canonical.ServerList{
			"fs": {Type: canonical.TransportStdio, Command: "npx", Args: []string{"server-fs"}},
		},
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestWrite_AllProviders(t *testing.T) {
	root := t.TempDir()
	logger, _ := logging.NewTestLogger()

	res, err := New(root, false, logger).Write(context.Background(), sampleOutput(), providers.Targets(providers.Providers))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"CLAUDE.md", ".mcp.json",
		"AGENTS.md", "opencode.json",
		"GEMINI.md", ".gemini/settings.json",
		".cursor/rules/a.mdc",
	}, res.Written)
	assert.Empty(t, res.Skipped)

	claude := readFile(t, root, "CLAUDE.md")
	assert.Equal(t, "Main\n\nRule A", claude)
	assert.Equal(t, claude, readFile(t, root, "AGENTS.md"))
	assert.Equal(t, claude, readFile(t, root, "GEMINI.md"))

	assert.Equal(t, "---\ndescription: A\n---\n\nRule A", readFile(t, root, ".cursor/rules/a.mdc"))
	assert.JSONEq(t, `{"mcpServers": {"fs": {"type": "stdio", "command": "npx", "args": ["server-fs"]}}}`, readFile(t, root, ".mcp.json"))
	assert.JSONEq(t, `{"mcpServers": {"fs": {"type": "stdio", "command": "npx", "args": ["server-fs"]}}}`, readFile(t, root, ".gemini/settings.json"))
	assert.JSONEq(t, `{"mcp": {"fs": {"type": "local", "command": ["npx", "server-fs"]}}}`, readFile(t, root, "opencode.json"))
}

func TestWrite_WrappedKeepsExistingSettings(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".gemini"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gemini", "settings.json"),
		[]byte(`{"theme": "GitHub", "mcpServers": {"stale": {"command": "x"}}}`), 0644))
	logger, _ := logging.NewTestLogger()

	_, err := New(root, false, logger).Write(context.Background(), sampleOutput(), []providers.Target{providers.GeminiSettings})
	require.NoError(t, err)

	assert.JSONEq(t, `{
  "theme": "GitHub",
  "mcpServers": {"fs": {"type": "stdio", "command": "npx", "args": ["server-fs"]}}
}`, readFile(t, root, ".gemini/settings.json"))
}

func TestWrite_MalformedSettingsSkipped(t *testing.T) {
	root := t.TempDir()
	settings := filepath.Join(root, ".gemini", "settings.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(settings), 0755))
	require.NoError(t, os.WriteFile(settings, []byte(`{"theme": `), 0644))
	logger, buf := logging.NewTestLogger()

	res, err := New(root, false, logger).Write(context.Background(), sampleOutput(), []providers.Target{providers.GeminiSettings, providers.ClaudeInstructions})
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, ".gemini/settings.json", res.Skipped[0].Path)
	assert.Equal(t, []string{"CLAUDE.md"}, res.Written)
	assert.Equal(t, `{"theme": `, readFile(t, root, ".gemini/settings.json"))
	assert.Contains(t, buf.String(), "Leaving settings file untouched")
}

func TestWrite_DryRun(t *testing.T) {
	root := t.TempDir()
	logger, _ := logging.NewTestLogger()

	res, err := New(root, true, logger).Write(context.Background(), sampleOutput(), providers.Targets(providers.Providers))
	require.NoError(t, err)

	assert.Len(t, res.Written, 7)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWrite_EmptyRulesWriteNothingForCursor(t *testing.T) {
	root := t.TempDir()
	logger, _ := logging.NewTestLogger()

	res, err := New(root, false, logger).Write(context.Background(), transform.Output{}, []providers.Target{providers.CursorRules})
	require.NoError(t, err)

	assert.Empty(t, res.Written)
	_, err = os.Stat(filepath.Join(root, ".cursor"))
	assert.True(t, os.IsNotExist(err))
}

func TestWrite_CancelledContext(t *testing.T) {
	root := t.TempDir()
	logger, _ := logging.NewTestLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(root, false, logger).Write(ctx, sampleOutput(), providers.Targets(providers.Providers))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Written)
}

func TestWrite_SplitKeepsExistingSettings(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "opencode.json"),
		[]byte(`{"$schema": "https://opencode.ai/config.json", "model": "anthropic/claude-sonnet-4", "mcp": {}}`), 0644))
	logger, _ := logging.NewTestLogger()

	_, err := New(root, false, logger).Write(context.Background(), sampleOutput(), []providers.Target{providers.OpencodeConfig})
	require.NoError(t, err)

	assert.JSONEq(t, `{
  "$schema": "https://opencode.ai/config.json",
  "model": "anthropic/claude-sonnet-4",
  "mcp": {"fs": {"type": "local", "command": ["npx", "server-fs"]}}
}`, readFile(t, root, "opencode.json"))
}

func TestWrite_MalformedOpencodeConfigSkipped(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "opencode.json"), []byte(`{"model": `), 0644))
	logger, _ := logging.NewTestLogger()

	res, err := New(root, false, logger).Write(context.Background(), sampleOutput(), []providers.Target{providers.OpencodeConfig})
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "opencode.json", res.Skipped[0].Path)
	assert.Equal(t, `{"model": `, readFile(t, root, "opencode.json"))
}

func TestWrite_ServerFieldsAndTransports(t *testing.T) {
	root := t.TempDir()
	list, err := canonical.DecodeServers([]byte(`{"mcpServers": {
  "web": {"type": "http", "url": "https://mcp.example.com", "headers": {"X-Team": "core"}},
  "fs": {"command": "npx", "cwd": "/srv", "timeout": 5000}
}}`))
	require.NoError(t, err)
	logger, buf := logging.NewTestLogger()

	res, err := New(root, false, logger).Write(context.Background(), transform.Output{Servers: list},
		[]providers.Target{providers.ClaudeServers, providers.GeminiSettings, providers.OpencodeConfig})
	require.NoError(t, err)

	want := `{"mcpServers": {
  "web": {"type": "http", "url": "https://mcp.example.com", "headers": {"X-Team": "core"}},
  "fs": {"command": "npx", "cwd": "/srv", "timeout": 5000}
}}`
	assert.JSONEq(t, want, readFile(t, root, ".mcp.json"))
	assert.JSONEq(t, want, readFile(t, root, ".gemini/settings.json"))
	assert.JSONEq(t, `{"mcp": {"fs": {"type": "local", "command": ["npx"]}}}`, readFile(t, root, "opencode.json"))

	assert.Equal(t, []Omitted{{Path: "opencode.json", Server: "web"}}, res.Omitted)
	assert.Contains(t, buf.String(), "Server transport has no split form")
}
