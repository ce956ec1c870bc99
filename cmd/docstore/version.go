package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/docstore"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of docstore",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docstore version %s\n", docstore.Version)
		},
	}
}
