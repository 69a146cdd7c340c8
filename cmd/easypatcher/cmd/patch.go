package cmd

import (
	"github.com/spf13/cobra"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Commands to build patches",
}

func init() {
	rootCmd.AddCommand(patchCmd)
}
