package cmd

import (
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var server string

	c := &cobra.Command{
		Use:   "show [FILE]",
		Short: "Print a scorecard as tables",
		Long:  "Renders a scorecard file, or the active scorecard of the server given by --server, one table per feature.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg, err := loadScorecard(args[0], false)
				if err != nil {
					return err
				}
				return writeDefinition(cmd.OutOrStdout(), cfg.Definition())
			}
			def, err := newClient(server).Scorecard(cmd.Context())
			if err != nil {
				return err
			}
			return writeDefinition(cmd.OutOrStdout(), def)
		},
	}
	addServerFlag(c, &server)
	return c
}
