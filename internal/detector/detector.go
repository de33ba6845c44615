// Package detector finds existing provider files that migration can
// consolidate into the canonical directory.
package detector

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"agentsync/internal/providers"
	"agentsync/pkg/fileops"

	"github.com/bmatcuk/doublestar/v4"
)

// Sources holds the absolute paths of detected provider files. Empty strings
// and empty slices mean "not found".
type Sources struct {
	ClaudeInstructions string
	AgentsInstructions string
	GeminiInstructions string

	DirectServers  string
	WrappedServers string
	SplitServers   string

	// Rules and Commands are sorted by file name.
	Rules    []string
	Commands []string
}

// Instructions returns the detected instruction files in merge order.
func (s Sources) Instructions() []string {
	var paths []string
	for _, p := range []string{s.ClaudeInstructions, s.AgentsInstructions, s.GeminiInstructions} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// HasServers reports whether any server source was found.
func (s Sources) HasServers() bool {
	return s.DirectServers != "" || s.WrappedServers != "" || s.SplitServers != ""
}

// Empty reports whether nothing was detected.
func (s Sources) Empty() bool {
	return len(s.Instructions()) == 0 && !s.HasServers() && len(s.Rules) == 0 && len(s.Commands) == 0
}

// Detect looks for provider files under root. Absence is never an error;
// other filesystem errors are returned.
func Detect(root string) (Sources, error) {
	var s Sources
	var err error

	singles := []struct {
		dst    *string
		target providers.Target
	}{
		{&s.ClaudeInstructions, providers.ClaudeInstructions},
		{&s.AgentsInstructions, providers.AgentsInstructions},
		{&s.GeminiInstructions, providers.GeminiInstructions},
		{&s.DirectServers, providers.ClaudeServers},
		{&s.WrappedServers, providers.GeminiSettings},
		{&s.SplitServers, providers.OpencodeConfig},
	}
	for _, single := range singles {
		if *single.dst, err = find(root, single.target.Path); err != nil {
			return Sources{}, err
		}
	}
	if s.SplitServers == "" {
		if s.SplitServers, err = find(root, providers.OpencodeConfigJSONC.Path); err != nil {
			return Sources{}, err
		}
	}

	if s.Rules, err = glob(root, providers.CursorRules); err != nil {
		return Sources{}, err
	}
	if s.Commands, err = glob(root, providers.ClaudeCommands); err != nil {
		return Sources{}, err
	}
	return s, nil
}

func find(root, rel string) (string, error) {
	path := filepath.Join(root, filepath.FromSlash(rel))
	ok, err := fileops.RegularFileExists(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return path, nil
}

// glob lists files matching target.Pattern directly inside target.Path.
func glob(root string, target providers.Target) ([]string, error) {
	dir := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(target.Path, "/")))
	ok, err := fileops.DirExists(dir)
	if err != nil || !ok {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(dir), target.Pattern,
		doublestar.WithFilesOnly(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", target.Path, err)
	}

	slices.Sort(matches)
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return paths, nil
}
