// Package cli provides the agentsync command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"agentsync/internal/config"
	"agentsync/internal/logging"
	"agentsync/internal/repository"
	"agentsync/internal/ui"
	"agentsync/pkg/fileops"

	"github.com/spf13/cobra"
)

// Version information set at build time
var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	dir          string
	configPath   string
	canonicalDir string
	noColor      bool
	skipGitCheck bool
}

// app is the state resolved before any command runs.
type app struct {
	opts   globalOptions
	logger *logging.AppLogger
	cfg    *config.Config
	root   string
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand(logging.GetDefault()).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Every call returns independent
// commands, so tests can run several in one process.
func NewRootCommand(logger *logging.AppLogger) *cobra.Command {
	a := &app{logger: logger}

	rootCmd := &cobra.Command{
		Use:   "agentsync",
		Short: "Keep AI coding assistant configuration in sync",
		Long: `agentsync keeps one canonical directory of instructions, rules, commands
and MCP servers in sync with the files each AI coding assistant reads:
CLAUDE.md, AGENTS.md, GEMINI.md, .cursor/rules, .mcp.json,
.gemini/settings.json and opencode.json.

Run 'agentsync init' once to create the canonical directory from the files
you already have, then 'agentsync run' after every change.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.opts.dir, "dir", "C", "", "Project directory (default: current directory)")
	flags.StringVar(&a.opts.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/agentsync/config.yaml)")
	flags.StringVar(&a.opts.canonicalDir, "canonical-dir", "", "Canonical directory relative to the project (default: .agentsync)")
	flags.BoolVar(&a.opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&a.opts.skipGitCheck, "skip-git-check", false, "Do not require a clean git working tree")

	rootCmd.SetVersionTemplate(fmt.Sprintf("agentsync %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(
		newRunCommand(a),
		newInitCommand(a),
		newMigrateCommand(a),
		newServeCommand(a),
		newConfigCommand(a),
	)
	return rootCmd
}

// setup loads configuration and applies flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.opts.noColor || os.Getenv("NO_COLOR") != "" {
		ui.DisableColor()
	}

	var err error
	if a.opts.configPath != "" {
		a.cfg, err = config.LoadFrom(a.opts.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.opts.canonicalDir != "" {
		if err := fileops.ValidateRelativeDir(a.opts.canonicalDir); err != nil {
			return fmt.Errorf("invalid --canonical-dir: %w", err)
		}
		a.cfg.CanonicalDir = a.opts.canonicalDir
	}
	if a.opts.skipGitCheck {
		a.cfg.SkipGitCheck = true
	}

	dir := a.opts.dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
	}
	if a.root, err = filepath.Abs(dir); err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	a.logger.Debug("Command setup complete",
		"command", cmd.Name(),
		"root", a.root,
		"canonical_dir", a.cfg.CanonicalDir,
		"skip_git_check", a.cfg.SkipGitCheck,
	)
	return nil
}

// preflight refuses to continue on a dirty git working tree.
func (a *app) preflight() error {
	if a.cfg.SkipGitCheck {
		a.logger.Debug("Git check skipped")
		return nil
	}
	return repository.CheckClean(a.root, a.logger)
}

func (a *app) canonicalPath() string {
	return filepath.Join(a.root, a.cfg.CanonicalDir)
}
