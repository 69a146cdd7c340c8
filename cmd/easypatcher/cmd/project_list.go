package cmd

import (
	"github.com/easypatcher/easypatcher/pkg/ui"
	"github.com/spf13/cobra"
)

var projectListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the projects of a task",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		task, err := taskStore().Get(easypatcherFlags.task.name)
		if err != nil {
			wrapFatalln("failed to load task", err)
			return
		}
		ui.PrintTask(cmd.OutOrStdout(), task)
	},
}

func init() {
	requireFlags(projectListCmd, addTaskFlag(projectListCmd))
	projectCmd.AddCommand(projectListCmd)
}
