package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bft-labs/robocore/pkg/opmode"
)

func newListCmd(reg *opmode.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered op modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tGROUP")
			for _, e := range reg.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Kind, e.Group)
			}
			return tw.Flush()
		},
	}
}
