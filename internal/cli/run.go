package cli

import (
	"fmt"
	"os"
	"time"

	"agentsync/internal/core"
	"agentsync/internal/providers"
	"agentsync/internal/ui"

	"github.com/spf13/cobra"
)

const previewStyleTimeout = 50 * time.Millisecond

func newRunCommand(a *app) *cobra.Command {
	var (
		dryRun      bool
		preview     bool
		providerIDs []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate every provider's files from the canonical directory",
		Long: `Read the canonical directory and write the instructions, rules and MCP
server configuration of every enabled provider.

Instruction files are replaced and rule files are written one per rule.
.gemini/settings.json keeps every key other than "mcpServers", and
opencode.json keeps every key other than "mcp".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids := providerIDs
			if len(ids) == 0 {
				ids = a.cfg.Providers
			}
			selected, err := providers.Select(ids)
			if err != nil {
				return err
			}

			if !dryRun {
				if err := a.preflight(); err != nil {
					return err
				}
			}

			res, err := core.NewGenerator(a.logger).Generate(cmd.Context(), core.GenerateOptions{
				Root:         a.root,
				CanonicalDir: a.cfg.CanonicalDir,
				Providers:    selected,
				DryRun:       dryRun,
			})
			if err != nil {
				return err
			}

			report := ui.NewReporter(cmd.OutOrStdout())
			if preview {
				if err := printPreview(cmd, a, res.Output.Instructions); err != nil {
					return err
				}
			}

			header := "Written:"
			if dryRun {
				header = "Would write:"
			}
			report.Files(header, res.Written)
			for _, s := range res.Skipped {
				report.Warning(fmt.Sprintf("Skipped %s: %s", s.Path, s.Reason))
			}
			for _, o := range res.Omitted {
				report.Warning(fmt.Sprintf("Server %q left out of %s: transport not supported there", o.Server, o.Path))
			}
			if dryRun {
				report.Success(fmt.Sprintf("Dry run: %d file(s) would be written", len(res.Written)))
			} else {
				report.Success(fmt.Sprintf("Generated %d file(s) for %d provider(s)", len(res.Written), len(selected)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be written without writing")
	cmd.Flags().BoolVar(&preview, "preview", false, "Render the combined instructions in the terminal")
	cmd.Flags().StringSliceVarP(&providerIDs, "providers", "p", nil, "Providers to generate for (default: all)")
	return cmd
}

func printPreview(cmd *cobra.Command, a *app, instructions string) error {
	style := ui.PlainStyle
	width := ui.DefaultWidth
	if !a.opts.noColor && isTerminal(cmd) {
		style = ui.DetectGlamourStyle(previewStyleTimeout)
	}

	rendered, err := ui.RenderMarkdown(instructions, width, style)
	if err != nil {
		return err
	}
	ui.NewReporter(cmd.OutOrStdout()).Title("Combined instructions")
	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
