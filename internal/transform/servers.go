package transform

import (
	"encoding/json"
	"fmt"
	"strings"

	"agentsync/internal/canonical"

	"github.com/tidwall/jsonc"
)

const (
	// WrappedServersKey nests the server list inside a settings file.
	WrappedServersKey = canonical.ServersKey

	// SplitServersKey holds the split-array schema in opencode.json.
	SplitServersKey = "mcp"

	SplitTypeLocal  = "local"
	SplitTypeRemote = "remote"
)

// SplitServer is the split-array schema: executable and arguments in one
// array, environment under its own key.
type SplitServer struct {
	Type        string            `json:"type"`
	Command     []string          `json:"command,omitempty"`
	URL         string            `json:"url,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
}

// DirectServers renders list exactly as the canonical mcp.json.
func DirectServers(list canonical.ServerList) ([]byte, error) {
	return canonical.EncodeServers(list)
}

// WrapServers sets WrappedServersKey in the JSON object existing and returns
// the result. Other top-level keys are kept. existing may be empty and may
// contain comments.
func WrapServers(existing []byte, list canonical.ServerList) ([]byte, error) {
	if list == nil {
		list = canonical.ServerList{}
	}
	servers, err := canonical.EncodeJSON(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode server list: %w", err)
	}
	return setKey(existing, WrappedServersKey, servers)
}

// setKey replaces key in the JSON object doc with value.
func setKey(doc []byte, key string, value json.RawMessage) ([]byte, error) {
	settings := map[string]json.RawMessage{}
	if len(strings.TrimSpace(string(doc))) > 0 {
		if err := json.Unmarshal(jsonc.ToJSON(doc), &settings); err != nil {
			return nil, fmt.Errorf("failed to parse existing settings: %w", err)
		}
		if settings == nil {
			// the document was a JSON null
			settings = map[string]json.RawMessage{}
		}
	}
	settings[key] = value
	return canonical.EncodeJSON(settings)
}

// UnwrapServers reads the server list nested under WrappedServersKey.
func UnwrapServers(data []byte) (canonical.ServerList, error) {
	var settings struct {
		Servers canonical.ServerList `json:"mcpServers"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if settings.Servers == nil {
		return canonical.ServerList{}, nil
	}
	return settings.Servers, nil
}

// ToSplit converts a canonical server spec to the split-array schema. An
// empty Env is dropped rather than written as {}. Only stdio (or untyped)
// and sse servers have a split form; ok is false for any other transport.
func ToSplit(spec canonical.ServerSpec) (split SplitServer, ok bool) {
	switch spec.Type {
	case "", canonical.TransportStdio:
		command := make([]string, 0, len(spec.Args)+1)
		command = append(command, spec.Command)
		command = append(command, spec.Args...)
		return SplitServer{
			Type:        SplitTypeLocal,
			Command:     command,
			Environment: nonEmpty(spec.Env),
		}, true
	case canonical.TransportSSE:
		return SplitServer{
			Type:        SplitTypeRemote,
			URL:         spec.URL,
			Environment: nonEmpty(spec.Env),
		}, true
	default:
		return SplitServer{}, false
	}
}

// FromSplit is the inverse of ToSplit.
func FromSplit(s SplitServer) canonical.ServerSpec {
	spec := canonical.ServerSpec{
		Type: s.Type,
		Args: []string{},
		Env:  map[string]string{},
	}
	switch s.Type {
	case SplitTypeLocal:
		spec.Type = canonical.TransportStdio
	case SplitTypeRemote:
		spec.Type = canonical.TransportSSE
	}

	if len(s.Command) > 0 {
		spec.Command = s.Command[0]
		spec.Args = append(spec.Args, s.Command[1:]...)
	}
	for k, v := range s.Environment {
		spec.Env[k] = v
	}
	spec.URL = s.URL
	return spec
}

// SplitServers sets SplitServersKey in the JSON object existing, keeping
// its other top-level keys. existing may be empty and may contain comments.
// Servers without a split form are left out and their names returned in
// skipped.
func SplitServers(existing []byte, list canonical.ServerList) (data []byte, skipped []string, err error) {
	split := make(map[string]SplitServer, len(list))
	for _, name := range list.Names() {
		s, ok := ToSplit(list[name])
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		split[name] = s
	}

	encoded, err := canonical.EncodeJSON(split)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode split server list: %w", err)
	}
	data, err = setKey(existing, SplitServersKey, encoded)
	if err != nil {
		return nil, nil, err
	}
	return data, skipped, nil
}

// DecodeSplitServers reads the split-array section of data and converts each
// entry back to the canonical schema.
func DecodeSplitServers(data []byte) (canonical.ServerList, error) {
	var doc struct {
		MCP map[string]SplitServer `json:"mcp"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse split server list: %w", err)
	}

	list := make(canonical.ServerList, len(doc.MCP))
	for name, s := range doc.MCP {
		list[name] = FromSplit(s)
	}
	return list, nil
}

func nonEmpty(env map[string]string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	return env
}
