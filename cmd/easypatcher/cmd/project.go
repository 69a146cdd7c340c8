package cmd

import (
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Commands to manage the projects of a task",
	Long: `Commands to manage the projects of a task.

A project is a git or svn working copy, optionally paired with the build
artifact shipped with its patches. The VCS of a project is detected once,
when it is added.`,
}

func init() {
	rootCmd.AddCommand(projectCmd)
}
