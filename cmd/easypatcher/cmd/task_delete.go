package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var taskDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete a task",
	Aliases: []string{"rm"},
	Run: func(cmd *cobra.Command, args []string) {
		name := easypatcherFlags.task.name
		if err := taskStore().DeleteTask(name); err != nil {
			wrapFatalln("failed to delete task", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted task %s\n", name)
	},
}

func init() {
	requireFlags(taskDeleteCmd, addTaskFlag(taskDeleteCmd))
	taskCmd.AddCommand(taskDeleteCmd)
}
