package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accessolutions/tablehandler/internal/tableconfig"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the tables with persisted settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Shutdown() }()

			keys, err := rt.Tables.Catalog(true)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no saved table settings")
				return nil
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k.String())
			}
			return nil
		},
	}
}

func newForgetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <key>",
		Short: "Drop the persisted settings of one table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := tableconfig.ParseKey(args[0])
			if err != nil {
				return err
			}
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Shutdown() }()

			if err := rt.Tables.Remove(key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "forgot %s\n", key)
			return nil
		},
	}
}
