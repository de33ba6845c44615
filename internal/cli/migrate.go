package cli

import (
	"fmt"

	"agentsync/internal/core"
	"agentsync/internal/ui"

	"github.com/spf13/cobra"
)

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the canonical directory",
		Long: `Create the canonical directory from existing provider files, exactly like
'agentsync migrate'. When no provider files exist, example content is
written instead. An existing canonical directory is left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.preflight(); err != nil {
				return err
			}
			res, err := core.NewMigrator(a.logger).Init(cmd.Context(), a.migrateOptions())
			if err != nil {
				return err
			}

			report := ui.NewReporter(cmd.OutOrStdout())
			switch {
			case res.AlreadyInitialized:
				report.Success(fmt.Sprintf("%s already exists, nothing to do", a.cfg.CanonicalDir))
			case res.FromTemplate:
				report.Files("Created from template:", res.Written)
				report.Success(fmt.Sprintf("Initialized %s with example content", a.cfg.CanonicalDir))
			default:
				reportMigration(report, a, res)
			}
			return nil
		},
	}
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Consolidate existing provider files into the canonical directory",
		Long: `Scan the project for CLAUDE.md, AGENTS.md, GEMINI.md, .cursor/rules,
.claude/commands, .mcp.json, .gemini/settings.json and opencode.json and
build the canonical directory from them.

Instruction files are joined in that order. MCP servers defined by more
than one provider keep the last definition (.mcp.json, then
.gemini/settings.json, then opencode.json). Fails if the canonical
directory already exists or nothing was found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.preflight(); err != nil {
				return err
			}
			res, err := core.NewMigrator(a.logger).Migrate(cmd.Context(), a.migrateOptions())
			if err != nil {
				if res != nil {
					reportInvalid(ui.NewReporter(cmd.OutOrStdout()), res)
				}
				return err
			}
			reportMigration(ui.NewReporter(cmd.OutOrStdout()), a, res)
			return nil
		},
	}
}

func (a *app) migrateOptions() core.MigrateOptions {
	return core.MigrateOptions{Root: a.root, CanonicalDir: a.cfg.CanonicalDir}
}

func reportMigration(report *ui.Reporter, a *app, res *core.MigrateResult) {
	report.Files("Created:", res.Written)
	report.Duplicates(res.Duplicates)
	reportInvalid(report, res)
	report.Success(fmt.Sprintf("Migrated %d file(s) into %s", len(res.Written), a.cfg.CanonicalDir))
	report.Info("Run 'agentsync run' to regenerate provider files from it.")
}

func reportInvalid(report *ui.Reporter, res *core.MigrateResult) {
	for _, src := range res.InvalidSources {
		report.Warning(fmt.Sprintf("Ignored the %s server list: it could not be parsed", src))
	}
}
