package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	Run: func(cmd *cobra.Command, args []string) {
		name := easypatcherFlags.task.name
		if err := taskStore().AddTask(name); err != nil {
			wrapFatalln("failed to create task", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created task %s\n", name)
	},
}

func init() {
	requireFlags(taskCreateCmd, addTaskFlag(taskCreateCmd))
	taskCmd.AddCommand(taskCreateCmd)
}
