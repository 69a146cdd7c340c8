package cmd

import (
	"fmt"

	"github.com/easypatcher/easypatcher/pkg/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var taskListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks and their projects",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		tasks, err := taskStore().Load()
		if err != nil {
			wrapFatalln("failed to load tasks", err)
			return
		}
		w := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(w, color.HiBlackString("no task"))
			return
		}
		for _, task := range tasks {
			ui.PrintTask(w, task)
			fmt.Fprintln(w)
		}
	},
}

func init() {
	taskCmd.AddCommand(taskListCmd)
}
