package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/fathom/internal/version"
)

func newVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Read(Version)
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.Version)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include build details")
	return cmd
}
