package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/dragselect/internal/config"
)

func newConfigCmd(f *runFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
DRAGSELECT_* environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ft, err := config.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := config.Load(f.loadOptions(cmd)...)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return config.Encode(cmd.OutOrStdout(), cfg, ft)
		},
	}
	addRunFlags(cmd, f)
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: toml or yaml")
	return cmd
}
