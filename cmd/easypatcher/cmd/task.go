package cmd

import (
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Commands to manage tasks",
	Long: `Commands to manage tasks.

A task is a named group of projects that are patched together. Tasks are
persisted in the task store file (configuration key "tasks").`,
}

func init() {
	rootCmd.AddCommand(taskCmd)
}
