// Package core orchestrates the two pipelines: generation from the canonical
// directory into provider files, and migration of provider files into a new
// canonical directory.
package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"agentsync/internal/canonical"
	"agentsync/internal/logging"
	"agentsync/internal/providers"
	"agentsync/internal/transform"
	"agentsync/internal/writer"
	"agentsync/pkg/fileops"
)

// GenerateOptions configures one generation run.
type GenerateOptions struct {
	// Root is the project directory provider files are written into.
	Root string

	// CanonicalDir is relative to Root.
	CanonicalDir string

	// Providers to generate for. Empty means every provider.
	Providers []providers.Provider

	DryRun bool
}

// GenerateResult reports a generation run.
type GenerateResult struct {
	Config  *canonical.Config
	Output  transform.Output
	Written []string
	Skipped []writer.Skipped
	Omitted []writer.Omitted
}

// Generator runs the generation pipeline.
type Generator struct {
	logger *logging.AppLogger
}

func NewGenerator(logger *logging.AppLogger) *Generator {
	return &Generator{logger: logger.With("component", "generator")}
}

// Generate reads the canonical directory, transforms it and writes every
// selected provider's files.
func (g *Generator) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	defer g.logger.LogPerformance("generate", time.Now())

	dir := filepath.Join(opts.Root, opts.CanonicalDir)
	ok, err := fileops.DirExists(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCanonicalDirMissing, dir)
	}

	selected := opts.Providers
	if len(selected) == 0 {
		selected = providers.Providers
	}

	cfg := canonical.NewReader(g.logger).Read(dir)
	out := transform.Transform(cfg)

	res, err := writer.New(opts.Root, opts.DryRun, g.logger).Write(ctx, out, providers.Targets(selected))
	result := &GenerateResult{Config: cfg, Output: out}
	if res != nil {
		result.Written = res.Written
		result.Skipped = res.Skipped
		result.Omitted = res.Omitted
	}
	if err != nil {
		return result, fmt.Errorf("failed to write provider files: %w", err)
	}

	g.logger.Info("Generation complete", "files", len(result.Written), "dry_run", opts.DryRun)
	return result, nil
}
