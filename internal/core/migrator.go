package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"agentsync/internal/canonical"
	"agentsync/internal/detector"
	"agentsync/internal/logging"
	"agentsync/internal/merge"
	"agentsync/internal/providers"
	"agentsync/pkg/fileops"
)

// InstructionsSeparator joins instruction files found in different providers.
const InstructionsSeparator = "\n\n---\n\n"

// Migration states.
const (
	StateCheckTargetAbsent = "CHECK_TARGET_ABSENT"
	StateScanSources       = "SCAN_SOURCES"
	StateBuildCanonical    = "BUILD_CANONICAL"
	StateWrite             = "WRITE"
	StateDone              = "DONE"
)

// MigrateOptions configures a migration.
type MigrateOptions struct {
	// Root is scanned for provider files.
	Root string

	// CanonicalDir is created relative to Root.
	CanonicalDir string
}

// MigrateResult reports a migration.
type MigrateResult struct {
	// AlreadyInitialized is set when Init found an existing canonical
	// directory and did nothing.
	AlreadyInitialized bool

	// FromTemplate is set when Init found no usable provider files and wrote
	// example content instead.
	FromTemplate bool

	Sources detector.Sources

	// Written holds the created files relative to Root.
	Written []string

	// Duplicates are server names defined by more than one provider.
	Duplicates []string

	// InvalidSources are server sources that could not be parsed.
	InvalidSources []string
}

// canonicalRules names migrated rule files inside the canonical directory.
var canonicalRules = providers.Target{
	Kind:         providers.KindRules,
	Path:         canonical.RulesDir + "/",
	Pattern:      "*" + canonical.RuleExt,
	RenameOption: providers.RenameOptionSuffix,
	NewName:      canonical.RuleExt,
}

// plannedFile is one canonical file. Exactly one of data and copyFrom is used.
type plannedFile struct {
	rel      string
	data     []byte
	copyFrom string
}

// Migrator consolidates provider files into a canonical directory.
type Migrator struct {
	logger *logging.AppLogger
	state  string
}

func NewMigrator(logger *logging.AppLogger) *Migrator {
	return &Migrator{logger: logger.With("component", "migrator")}
}

// Migrate creates the canonical directory from existing provider files. It
// fails with ErrCanonicalDirExists or ErrNothingToMigrate without writing;
// provider files that yield no canonical content count as nothing.
func (m *Migrator) Migrate(ctx context.Context, opts MigrateOptions) (*MigrateResult, error) {
	return m.run(ctx, opts, false)
}

// Init is Migrate with two relaxations: an existing canonical directory is
// a successful no-op, and finding nothing usable writes template content.
func (m *Migrator) Init(ctx context.Context, opts MigrateOptions) (*MigrateResult, error) {
	return m.run(ctx, opts, true)
}

func (m *Migrator) run(ctx context.Context, opts MigrateOptions, initMode bool) (*MigrateResult, error) {
	defer m.logger.LogPerformance("migrate", time.Now())
	m.state = ""
	m.transition(StateCheckTargetAbsent)

	dir := filepath.Join(opts.Root, opts.CanonicalDir)
	exists, err := pathExists(dir)
	if err != nil {
		return nil, err
	}
	if exists {
		if initMode {
			m.logger.Info("Canonical directory already exists", "dir", dir)
			m.transition(StateDone)
			return &MigrateResult{AlreadyInitialized: true}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrCanonicalDirExists, dir)
	}

	m.transition(StateScanSources)
	sources, err := detector.Detect(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan provider files: %w", err)
	}
	m.logger.DebugObject("sources", sources)

	res := &MigrateResult{Sources: sources}
	m.transition(StateBuildCanonical)

	var plan []plannedFile
	if sources.Empty() {
		if !initMode {
			return nil, fmt.Errorf("%w in %s", ErrNothingToMigrate, opts.Root)
		}
		res.FromTemplate = true
		plan, err = templatePlan()
	} else {
		plan, err = m.buildPlan(sources, res)
	}
	if err != nil {
		return nil, err
	}

	// Server lists were found but none held a usable server.
	if len(plan) == 0 {
		m.logger.Warn("Provider files found but nothing could be migrated",
			"invalid", strings.Join(res.InvalidSources, ", "))
		if !initMode {
			return res, fmt.Errorf("%w: provider files in %s hold no usable content", ErrNothingToMigrate, opts.Root)
		}
		res.FromTemplate = true
		if plan, err = templatePlan(); err != nil {
			return nil, err
		}
	}

	m.transition(StateWrite)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := fileops.EnsureDirectoryExists(dir); err != nil {
		return res, err
	}
	for _, f := range plan {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := writePlanned(dir, f); err != nil {
			return res, err
		}
		res.Written = append(res.Written, path.Join(filepath.ToSlash(opts.CanonicalDir), f.rel))
	}

	m.transition(StateDone)
	m.logger.Info("Canonical directory created",
		"dir", dir,
		"files", len(res.Written),
		"template", res.FromTemplate,
	)
	return res, nil
}

func (m *Migrator) buildPlan(sources detector.Sources, res *MigrateResult) ([]plannedFile, error) {
	var plan []plannedFile

	if paths := sources.Instructions(); len(paths) > 0 {
		parts := make([]string, 0, len(paths))
		for _, p := range paths {
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", p, err)
			}
			parts = append(parts, string(data))
		}
		plan = append(plan, plannedFile{
			rel:  canonical.InstructionsFile,
			data: []byte(strings.Join(parts, InstructionsSeparator)),
		})
	}

	for _, src := range sources.Rules {
		plan = append(plan, plannedFile{rel: canonicalRules.GenerateFullPath(filepath.Base(src)), copyFrom: src})
	}
	for _, src := range sources.Commands {
		plan = append(plan, plannedFile{rel: path.Join(canonical.CommandsDir, filepath.Base(src)), copyFrom: src})
	}

	if sources.HasServers() {
		direct, err := readOptional(sources.DirectServers)
		if err != nil {
			return nil, err
		}
		wrapped, err := readOptional(sources.WrappedServers)
		if err != nil {
			return nil, err
		}
		split, err := readOptional(sources.SplitServers)
		if err != nil {
			return nil, err
		}

		merged := merge.Servers(direct, wrapped, split)
		res.Duplicates = merged.Duplicates
		res.InvalidSources = merged.Invalid
		if len(merged.Duplicates) > 0 {
			m.logger.Warn("Server defined by more than one provider, later definition kept",
				"servers", strings.Join(merged.Duplicates, ", "))
		}
		for _, name := range merged.Invalid {
			m.logger.Warn("Ignoring unparseable server list", "source", name)
		}

		if len(merged.Servers) > 0 {
			data, err := canonical.EncodeServers(merged.Servers)
			if err != nil {
				return nil, err
			}
			plan = append(plan, plannedFile{rel: canonical.ServersFile, data: data})
		}
	}

	return plan, nil
}

func (m *Migrator) transition(to string) {
	m.logger.LogStateTransition("migrator", m.state, to)
	m.state = to
}

func writePlanned(dir string, f plannedFile) error {
	dst := filepath.Join(dir, filepath.FromSlash(f.rel))
	if f.copyFrom == "" {
		return fileops.AtomicWriteFile(dst, f.data)
	}
	if err := fileops.EnsureDirectoryExists(filepath.Dir(dst)); err != nil {
		return err
	}
	if err := fileops.AtomicCopy(f.copyFrom, dst); err != nil {
		return fmt.Errorf("failed to copy %s: %w", f.copyFrom, err)
	}
	return nil
}

func readOptional(p string) ([]byte, error) {
	if p == "" {
		return nil, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}

func pathExists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", p, err)
}
