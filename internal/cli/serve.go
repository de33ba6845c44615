package cli

import (
	"fmt"

	"agentsync/internal/core"
	"agentsync/internal/mcp"
	"agentsync/pkg/fileops"

	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve canonical rules as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout. Every rule with a
"description" becomes a tool returning the rule text, next to
get_instructions and list_rules.

Add it to an assistant's MCP configuration as the command
"agentsync serve".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := a.canonicalPath()
			ok, err := fileops.DirExists(dir)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", core.ErrCanonicalDirMissing, dir)
			}
			return mcp.NewServer(dir, Version, a.logger).Start()
		},
	}
}
