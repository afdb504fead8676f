package cmd

import (
	"fmt"

	"github.com/corey/riskcard/internal/adapters/yamlsource"
	"github.com/corey/riskcard/internal/domain/record"
	"github.com/corey/riskcard/internal/domain/scorecard"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var noSchema bool

	c := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a scorecard file",
		Long:  "Parses and validates a scorecard. Unless --no-schema is set, every feature must be a change-request attribute and categorical features must cover all of its values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScorecard(args[0], !noSchema)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s v%d, %d features, %d bands\n",
				args[0], cfg.ScoreName(), cfg.Version(), len(cfg.Features()), len(cfg.Bands()))
			return nil
		},
	}
	c.Flags().BoolVar(&noSchema, "no-schema", false, "skip the change-request attribute check")
	return c
}

// loadScorecard reads and validates the scorecard at path.
func loadScorecard(path string, withSchema bool) (*scorecard.Config, error) {
	doc, err := yamlsource.NewFile(path).Load()
	if err != nil {
		return nil, err
	}
	var opts []scorecard.Option
	if withSchema {
		opts = append(opts, scorecard.WithSchema(record.Schema()))
	}
	cfg, err := scorecard.Validate(doc.Definition, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
