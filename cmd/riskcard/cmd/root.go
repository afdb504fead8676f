package cmd

import (
	"fmt"
	"os"

	"github.com/corey/riskcard/internal/adapters/web"
	"github.com/spf13/cobra"
)

// EnvServer overrides the default --server address.
const EnvServer = "RISKCARD_SERVER"

const defaultServer = "localhost:8000"

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "riskcard",
		Short:         "riskcard — change risk scoring",
		Long:          "Scores change requests against an editable scorecard and serves the scorer over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newHealthCmd())
	root.AddCommand(newReloadCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newInitCmd())
	return root
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// addServerFlag registers --server on c.
func addServerFlag(c *cobra.Command, addr *string) {
	def := defaultServer
	if v, ok := os.LookupEnv(EnvServer); ok && v != "" {
		def = v
	}
	c.Flags().StringVar(addr, "server", def, "address of a running riskcard server")
}

func newClient(addr string) *web.Client {
	return web.NewClient(addr)
}
