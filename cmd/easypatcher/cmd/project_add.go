package cmd

import (
	"fmt"

	"github.com/easypatcher/easypatcher/pkg/vcs"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a project to a task",
	Run: func(cmd *cobra.Command, args []string) {
		project, err := taskStore().AddProject(easypatcherFlags.task.name, easypatcherFlags.project.path)
		if err != nil {
			wrapFatalln("failed to add project", err)
			return
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "added %s\n", project)
		if !project.VCS.Supported() {
			fmt.Fprintln(w, color.YellowString("warning: %s, the project will be skipped by patch builds", vcs.NoticeUnknownVCS))
		}
	},
}

func init() {
	requireFlags(projectAddCmd,
		addTaskFlag(projectAddCmd),
		addProjectPathFlag(projectAddCmd),
	)
	projectCmd.AddCommand(projectAddCmd)
}
