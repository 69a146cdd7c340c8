package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var taskOutputCmd = &cobra.Command{
	Use:   "output",
	Short: "Set the output directory of a task",
	Run: func(cmd *cobra.Command, args []string) {
		name := easypatcherFlags.task.name
		if err := taskStore().SetOutput(name, easypatcherFlags.task.output); err != nil {
			wrapFatalln("failed to set task output", err)
			return
		}
		task, err := taskStore().Get(name)
		if err != nil {
			wrapFatalln("failed to load task", err)
			return
		}
		out := task.Output
		if out == "" {
			out = config.Output
		}
		fmt.Fprintf(cmd.OutOrStdout(), "task %s outputs to %s\n", name, out)
	},
}

func init() {
	requireFlags(taskOutputCmd, addTaskFlag(taskOutputCmd))
	addTaskOutputFlag(taskOutputCmd)
	taskCmd.AddCommand(taskOutputCmd)
}
