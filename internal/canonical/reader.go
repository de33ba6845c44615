package canonical

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agentsync/internal/frontmatter"
	"agentsync/internal/logging"
)

// Reader materializes a Config from a canonical directory.
//
// Every part is read independently and degrades to its empty value: a
// missing instructions file, a missing rules or commands directory or a
// malformed mcp.json never fails the read. Problems other than absence are
// logged as warnings.
type Reader struct {
	logger *logging.AppLogger
}

// NewReader creates a Reader that reports degraded reads to logger.
func NewReader(logger *logging.AppLogger) *Reader {
	return &Reader{logger: logger}
}

// Read loads the canonical directory at dir. It does not check that dir
// exists; callers that require it do so first.
func (r *Reader) Read(dir string) *Config {
	defer r.logger.LogPerformance("read canonical directory", time.Now())

	cfg := NewConfig()
	cfg.Instructions = r.readInstructions(dir)
	cfg.Rules = r.readRules(dir)
	cfg.Commands = r.readCommands(dir)
	cfg.Servers = r.readServers(dir)

	r.logger.Debug("Canonical directory loaded",
		"dir", dir,
		"rules", len(cfg.Rules),
		"commands", len(cfg.Commands),
		"servers", len(cfg.Servers),
	)
	return cfg
}

func (r *Reader) readInstructions(dir string) string {
	path := filepath.Join(dir, InstructionsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		r.warnUnlessMissing("Failed to read instructions", path, err)
		return ""
	}
	return string(data)
}

func (r *Reader) readRules(dir string) []RuleFile {
	rulesDir := filepath.Join(dir, RulesDir)
	names := r.listFiles(rulesDir, RuleExt)

	rules := make([]RuleFile, 0, len(names))
	for _, name := range names {
		path := filepath.Join(rulesDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Skipping unreadable rule file", "path", path, "error", err)
			continue
		}
		doc := frontmatter.Parse(string(data))
		rules = append(rules, RuleFile{
			Metadata: doc.Metadata,
			Body:     doc.Body,
			Filename: name,
		})
	}
	return rules
}

func (r *Reader) readCommands(dir string) []string {
	names := r.listFiles(filepath.Join(dir, CommandsDir), CommandExt)

	commands := make([]string, 0, len(names))
	for _, name := range names {
		commands = append(commands, strings.TrimSuffix(name, CommandExt))
	}
	return commands
}

func (r *Reader) readServers(dir string) ServerList {
	path := filepath.Join(dir, ServersFile)
	data, err := os.ReadFile(path)
	if err != nil {
		r.warnUnlessMissing("Failed to read server list", path, err)
		return ServerList{}
	}

	list, err := DecodeServers(data)
	if err != nil {
		r.logger.Warn("Ignoring malformed server list", "path", path, "error", err)
		return ServerList{}
	}
	return list
}

// listFiles returns the names of regular files in dir with extension ext,
// sorted by name. A missing directory yields no names.
func (r *Reader) listFiles(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.warnUnlessMissing("Failed to list directory", dir, err)
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

func (r *Reader) warnUnlessMissing(msg, path string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug(msg, "path", path, "reason", "not found")
		return
	}
	r.logger.Warn(msg, "path", path, "error", err)
}
