// Package merge consolidates MCP server lists found in several provider
// files into one canonical list.
package merge

import (
	"strings"

	"agentsync/internal/canonical"
	"agentsync/internal/transform"
)

// Source names used in Result.Invalid.
const (
	SourceDirect  = "direct"
	SourceWrapped = "wrapped"
	SourceSplit   = "split"
)

// Result is the outcome of merging server lists.
type Result struct {
	Servers canonical.ServerList

	// Duplicates holds every name defined by more than one source, once,
	// in the order the collisions were found.
	Duplicates []string

	// Invalid names the sources that were present but could not be parsed.
	Invalid []string
}

type source struct {
	name   string
	data   []byte
	decode func([]byte) (canonical.ServerList, error)
}

// Servers merges the direct (.mcp.json), wrapped (.gemini/settings.json)
// and split (opencode.json) server lists in that order. A later source
// replaces an earlier definition of the same name. Nil, blank or
// unparseable sources contribute nothing.
func Servers(direct, wrapped, split []byte) Result {
	res := Result{Servers: canonical.ServerList{}}
	seen := map[string]bool{}

	sources := []source{
		{SourceDirect, direct, canonical.DecodeServers},
		{SourceWrapped, wrapped, transform.UnwrapServers},
		{SourceSplit, split, transform.DecodeSplitServers},
	}
	for _, src := range sources {
		if strings.TrimSpace(string(src.data)) == "" {
			continue
		}
		list, err := src.decode(src.data)
		if err != nil {
			res.Invalid = append(res.Invalid, src.name)
			continue
		}

		for _, name := range list.Names() {
			if _, exists := res.Servers[name]; exists && !seen[name] {
				seen[name] = true
				res.Duplicates = append(res.Duplicates, name)
			}
			res.Servers[name] = list[name]
		}
	}
	return res
}
