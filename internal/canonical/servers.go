package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/tidwall/jsonc"
)

// ServersKey is the top-level key of mcp.json.
const ServersKey = "mcpServers"

type serversFile struct {
	MCPServers ServerList `json:"mcpServers"`
}

// DecodeServers parses a {"mcpServers": {...}} document. Comments and
// trailing commas are tolerated. A document without the key decodes to an
// empty list.
func DecodeServers(data []byte) (ServerList, error) {
	var file serversFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return nil, fmt.Errorf("failed to parse server list: %w", err)
	}
	if file.MCPServers == nil {
		return ServerList{}, nil
	}
	return file.MCPServers, nil
}

// EncodeServers renders list as a pretty printed mcp.json document. A nil
// list renders as {"mcpServers": {}}.
func EncodeServers(list ServerList) ([]byte, error) {
	if list == nil {
		list = ServerList{}
	}
	data, err := EncodeJSON(serversFile{MCPServers: list})
	if err != nil {
		return nil, fmt.Errorf("failed to encode server list: %w", err)
	}
	return data, nil
}

// EncodeJSON renders v with 2-space indentation and a trailing newline,
// leaving <, > and & unescaped so shell commands stay readable.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// specFields are the entry keys mapped to ServerSpec fields.
var specFields = []string{"type", "command", "args", "env", "url"}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (s *ServerSpec) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*s = ServerSpec{}
	known := map[string]any{
		"type":    &s.Type,
		"command": &s.Command,
		"args":    &s.Args,
		"env":     &s.Env,
		"url":     &s.URL,
	}
	for key, raw := range fields {
		if dst, ok := known[key]; ok {
			if err := json.Unmarshal(raw, dst); err != nil {
				return fmt.Errorf("invalid %q: %w", key, err)
			}
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]json.RawMessage)
		}
		s.Extra[key] = raw
	}
	return nil
}

// MarshalJSON writes type, command, args, env and url, then Extra in key
// order. command is left out only for a URL-only entry.
func (s ServerSpec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	field := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := encodeCompact(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if raw, ok := v.(json.RawMessage); ok {
			return json.Compact(&buf, raw)
		}
		val, err := encodeCompact(v)
		if err != nil {
			return err
		}
		buf.Write(val)
		return nil
	}

	type entry struct {
		key  string
		val  any
		emit bool
	}
	entries := []entry{
		{"type", s.Type, s.Type != ""},
		{"command", s.Command, s.Command != "" || s.URL == ""},
		{"args", s.Args, len(s.Args) > 0},
		{"env", s.Env, len(s.Env) > 0},
		{"url", s.URL, s.URL != ""},
	}
	for _, e := range entries {
		if !e.emit {
			continue
		}
		if err := field(e.key, e.val); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		if !slices.Contains(specFields, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := field(k, s.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
