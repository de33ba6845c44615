package cli

import (
	"fmt"

	"agentsync/internal/config"
	"agentsync/internal/tui"
	"agentsync/internal/ui"

	"github.com/spf13/cobra"
)

func newConfigCommand(a *app) *cobra.Command {
	var (
		write bool
		pick  bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration in effect after applying flags, as YAML.
With --write, save it to the config file so later runs use it.
With --select, choose the providers interactively and save the result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.opts.configPath
			if path == "" {
				path = config.ConfigPath()
			}

			report := ui.NewReporter(cmd.OutOrStdout())

			if pick {
				ids, ok, err := tui.PickProviders(a.cfg.Providers, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
				if err != nil {
					return err
				}
				if !ok {
					report.Warning("Selection cancelled, configuration unchanged")
					return nil
				}
				a.cfg.Providers = ids
				write = true
			}

			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}

			report.Info("# " + path)
			fmt.Fprint(cmd.OutOrStdout(), string(data))

			if write {
				if err := a.cfg.SaveTo(path); err != nil {
					return err
				}
				report.Success("Saved " + path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Save the effective configuration")
	cmd.Flags().BoolVar(&pick, "select", false, "Choose providers interactively, then save")
	return cmd
}
