package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectArtifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Pair a build artifact with a project",
	Long: `Pair a build artifact with a project of a task.

Archives (see the stage.extensions configuration key) are extracted into an
unzip_target directory beside them when a patch is built, and the extracted
tree is bundled. Other artifacts are bundled as is. An empty --artifact clears it.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := taskStore().SetArtifact(easypatcherFlags.task.name, easypatcherFlags.project.path, easypatcherFlags.project.artifact)
		if err != nil {
			wrapFatalln("failed to set artifact", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "artifact of %s set to %q\n", easypatcherFlags.project.path, easypatcherFlags.project.artifact)
	},
}

func init() {
	requireFlags(projectArtifactCmd,
		addTaskFlag(projectArtifactCmd),
		addProjectPathFlag(projectArtifactCmd),
	)
	addArtifactFlag(projectArtifactCmd)
	projectCmd.AddCommand(projectArtifactCmd)
}
