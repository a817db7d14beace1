package main

import (
	"github.com/spf13/cobra"

	"sheetrows/pkg/contracts"
)

func newVersionCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			if full {
				cmd.Println(contracts.GetFullVersionString())
				return
			}
			cmd.Println(contracts.GetVersionString())
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "include build and runtime details")
	return cmd
}
