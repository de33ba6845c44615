package canonical

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"agentsync/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRead_FullDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, InstructionsFile), "Main instructions\n")
	writeFile(t, filepath.Join(dir, RulesDir, "b-style.md"), "---\ndescription: Style\nalwaysApply: true\n---\n\nUse gofmt.")
	writeFile(t, filepath.Join(dir, RulesDir, "a-plain.md"), "No metadata here.")
	writeFile(t, filepath.Join(dir, RulesDir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, CommandsDir, "review.md"), "Review the diff")
	writeFile(t, filepath.Join(dir, CommandsDir, "deploy.md"), "Deploy")
	writeFile(t, filepath.Join(dir, ServersFile), `{
  "mcpServers": {
    "fs": {"type": "stdio", "command": "npx", "args": ["-y", "server-fs"], "env": {"ROOT": "/tmp"}}
  }
}`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, RulesDir, "nested.md"), 0o755))

	logger, _ := logging.NewTestLogger()
	cfg := NewReader(logger).Read(dir)

	assert.Equal(t, "Main instructions\n", cfg.Instructions)

	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "a-plain.md", cfg.Rules[0].Filename)
	assert.Equal(t, 0, cfg.Rules[0].Metadata.Len())
	assert.Equal(t, "No metadata here.", cfg.Rules[0].Body)
	assert.Equal(t, "b-style.md", cfg.Rules[1].Filename)
	assert.Equal(t, "Style", cfg.Rules[1].Metadata.String("description"))
	assert.Equal(t, "\nUse gofmt.", cfg.Rules[1].Body)

	assert.Equal(t, []string{"deploy", "review"}, cfg.Commands)

	require.Contains(t, cfg.Servers, "fs")
	assert.Equal(t, ServerSpec{
		Type:    TransportStdio,
		Command: "npx",
		Args:    []string{"-y", "server-fs"},
		Env:     map[string]string{"ROOT": "/tmp"},
	}, cfg.Servers["fs"])
}

func TestRead_EmptyDirectoryDefaults(t *testing.T) {
	logger, buf := logging.NewTestLogger()
	cfg := NewReader(logger).Read(t.TempDir())

	assert.Equal(t, "", cfg.Instructions)
	assert.NotNil(t, cfg.Rules)
	assert.Empty(t, cfg.Rules)
	assert.NotNil(t, cfg.Commands)
	assert.Empty(t, cfg.Commands)
	assert.NotNil(t, cfg.Servers)
	assert.Empty(t, cfg.Servers)
	assert.NotContains(t, buf.String(), "WARN")
}

func TestRead_MalformedServerListDegrades(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, InstructionsFile), "still read")
	writeFile(t, filepath.Join(dir, ServersFile), `{"mcpServers": {`)

	logger, buf := logging.NewTestLogger()
	cfg := NewReader(logger).Read(dir)

	assert.Equal(t, "still read", cfg.Instructions)
	assert.Empty(t, cfg.Servers)
	assert.Contains(t, buf.String(), "Ignoring malformed server list")
}

func TestDecodeServers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ServerList
		wantErr bool
	}{
		{
			name:  "empty object",
			input: `{"mcpServers": {}}`,
			want:  ServerList{},
		},
		{
			name:  "missing key",
			input: `{"other": true}`,
			want:  ServerList{},
		},
		{
			name: "comments and trailing commas",
			input: `{
  // local tools
  "mcpServers": {
    "git": {"command": "uvx", "args": ["mcp-server-git"],},
  },
}`,
			want: ServerList{"git": {Command: "uvx", Args: []string{"mcp-server-git"}}},
		},
		{
			name:    "wrong shape",
			input:   `{"mcpServers": []}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeServers([]byte(tc.input))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeServers(t *testing.T) {
	data, err := EncodeServers(nil)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"mcpServers\": {}\n}\n", string(data))

	data, err = EncodeServers(ServerList{
		"db": {Command: "run", Args: []string{"--url", "a&b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{
  "mcpServers": {
    "db": {
      "command": "run",
      "args": [
        "--url",
        "a&b"
      ]
    }
  }
}
`, string(data))
}

func TestServerList_Names(t *testing.T) {
	list := ServerList{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, list.Names())
}

func TestServerSpec_UnknownFieldsSurvive(t *testing.T) {
	input := `{"mcpServers": {
  "web": {"type": "http", "url": "https://mcp.example.com", "headers": {"Authorization": "Bearer x"}},
  "fs": {"command": "npx", "cwd": "/srv", "timeout": 5000}
}}`

	list, err := DecodeServers([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "/srv", mustString(t, list["fs"].Extra["cwd"]))
	assert.Contains(t, list["web"].Extra, "headers")

	data, err := EncodeServers(list)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(data))
}

func TestServerSpec_FieldOrder(t *testing.T) {
	spec := ServerSpec{
		Type:    TransportStdio,
		Command: "run",
		Extra:   map[string]json.RawMessage{"timeout": json.RawMessage(`5000`), "cwd": json.RawMessage(`"/srv"`)},
	}

	data, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"stdio","command":"run","cwd":"/srv","timeout":5000}`, string(data))
}

func TestServerSpec_InvalidKnownField(t *testing.T) {
	_, err := DecodeServers([]byte(`{"mcpServers": {"x": {"command": "run", "args": "not-a-list"}}}`))
	assert.Error(t, err)
}

func mustString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}
