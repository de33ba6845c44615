// Package writer puts transformed payloads on disk at provider locations.
package writer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"agentsync/internal/logging"
	"agentsync/internal/providers"
	"agentsync/internal/transform"
	"agentsync/pkg/fileops"
)

// Skipped is a target that was deliberately left untouched.
type Skipped struct {
	Path   string
	Reason string
}

// Omitted is a server left out of one target because the target's schema
// cannot express its transport.
type Omitted struct {
	Path   string
	Server string
}

// Result lists what a Write did. Paths are relative to the project root and
// use forward slashes.
type Result struct {
	Written []string
	Skipped []Skipped
	Omitted []Omitted
}

// Writer writes provider files below a project root. Each file is replaced
// atomically; a failure part-way leaves earlier files written.
type Writer struct {
	root   string
	dryRun bool
	logger *logging.AppLogger
}

// New creates a Writer rooted at root. With dryRun set, Write reports the
// paths it would write without touching the filesystem.
func New(root string, dryRun bool, logger *logging.AppLogger) *Writer {
	return &Writer{root: root, dryRun: dryRun, logger: logger}
}

// Write renders out into every target. ctx is checked between files.
func (w *Writer) Write(ctx context.Context, out transform.Output, targets []providers.Target) (*Result, error) {
	defer w.logger.LogPerformance("write provider files", time.Now())

	res := &Result{}
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var err error
		switch target.Kind {
		case providers.KindInstructions:
			err = w.writeFile(ctx, res, target.Path, []byte(out.Instructions))
		case providers.KindRules:
			err = w.writeRules(ctx, res, target, out.Rules)
		case providers.KindDirectServers:
			err = w.render(ctx, res, target.Path, func() ([]byte, error) {
				return transform.DirectServers(out.Servers)
			})
		case providers.KindSplitServers:
			err = w.writeSplit(ctx, res, target.Path, out)
		case providers.KindWrappedServers:
			err = w.writeWrapped(ctx, res, target.Path, out)
		default:
			w.logger.Debug("Target kind is not generated", "path", target.Path, "kind", target.Kind)
		}
		if err != nil {
			return res, err
		}
	}

	w.logger.Debug("Provider files written",
		"written", len(res.Written),
		"skipped", len(res.Skipped),
		"dry_run", w.dryRun,
	)
	return res, nil
}

func (w *Writer) writeRules(ctx context.Context, res *Result, target providers.Target, rules []transform.RuleOutput) error {
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := target.GenerateFullPath(rule.Source)
		if err := w.writeFile(ctx, res, rel, []byte(rule.Content)); err != nil {
			return err
		}
	}
	return nil
}

// writeWrapped merges the server list into the existing settings file. A
// settings file that cannot be parsed is reported and left as it is.
func (w *Writer) writeWrapped(ctx context.Context, res *Result, rel string, out transform.Output) error {
	existing, err := w.readExisting(rel)
	if err != nil {
		return err
	}

	data, err := transform.WrapServers(existing, out.Servers)
	if err != nil {
		w.skip(res, rel, err)
		return nil
	}
	return w.writeFile(ctx, res, rel, data)
}

// writeSplit merges the split-array server list into an existing opencode
// config the same way writeWrapped does.
func (w *Writer) writeSplit(ctx context.Context, res *Result, rel string, out transform.Output) error {
	existing, err := w.readExisting(rel)
	if err != nil {
		return err
	}

	data, unsupported, err := transform.SplitServers(existing, out.Servers)
	if err != nil {
		w.skip(res, rel, err)
		return nil
	}
	for _, name := range unsupported {
		w.logger.Warn("Server transport has no split form, leaving it out",
			"path", rel,
			"server", name,
			"type", out.Servers[name].Type,
		)
		res.Omitted = append(res.Omitted, Omitted{Path: rel, Server: name})
	}
	return w.writeFile(ctx, res, rel, data)
}

func (w *Writer) readExisting(rel string) ([]byte, error) {
	existing, err := os.ReadFile(w.abs(rel))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return existing, nil
}

func (w *Writer) skip(res *Result, rel string, err error) {
	w.logger.Warn("Leaving settings file untouched", "path", rel, "error", err)
	res.Skipped = append(res.Skipped, Skipped{Path: rel, Reason: err.Error()})
}

func (w *Writer) render(ctx context.Context, res *Result, rel string, encode func() ([]byte, error)) error {
	data, err := encode()
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", rel, err)
	}
	return w.writeFile(ctx, res, rel, data)
}

func (w *Writer) writeFile(ctx context.Context, res *Result, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !w.dryRun {
		if err := fileops.AtomicWriteFile(w.abs(rel), data); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}
	w.logger.LogFileWrite(rel, len(data), w.dryRun)
	res.Written = append(res.Written, rel)
	return nil
}

func (w *Writer) abs(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}
