package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var server string
	c := &cobra.Command{
		Use:   "health",
		Short: "Check a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newClient(server).Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatHealth(h))
			return nil
		},
	}
	addServerFlag(c, &server)
	return c
}

func newReloadCmd() *cobra.Command {
	var server string
	c := &cobra.Command{
		Use:   "reload",
		Short: "Make a running server re-read its scorecard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient(server).Reload(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: version %d, %d features\n", res.Status, res.Version, len(res.Features))
			return nil
		},
	}
	addServerFlag(c, &server)
	return c
}

func newHistoryCmd() *cobra.Command {
	var (
		server string
		limit  int
		format string
	)
	c := &cobra.Command{
		Use:   "history",
		Short: "List scorecard revisions published by a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			res, err := newClient(server).History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), format, res.Revisions)
		},
	}
	addServerFlag(c, &server)
	c.Flags().IntVarP(&limit, "limit", "n", 20, "revisions to list (0 lists all)")
	c.Flags().StringVarP(&format, "output", "o", formatTable, "table, json or yaml")
	return c
}
