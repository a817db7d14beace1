package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sheetdump",
		Short:         "Dump spreadsheet rows",
		Long:          `Reads the spreadsheet configured through SHEETROWS_* variables or sheetrows.yaml
and writes the rows belonging to one email address.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRowsCmd(), newVersionCmd())
	return root
}
