package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quotectl",
		Short:        "Steel quoting utilities",
		SilenceUsage: true,
	}
	root.AddCommand(newWeightCmd(), newShapesCmd(), newExportCmd(), newExpireCmd())
	return root
}
