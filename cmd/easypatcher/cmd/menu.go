package cmd

import (
	"github.com/easypatcher/easypatcher/pkg/ui"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Long: `Start the interactive operator menu.

The menu walks through tasks, their projects, revision selection and the
confirmation of the merged change sets before any bundle is written.`,
	Run: func(cmd *cobra.Command, args []string) {
		runMenu(cmd)
	},
}

func runMenu(cmd *cobra.Command) {
	ctx, cancel := newContext()
	defer cancel()

	p, closer := newPrompter(cmd.OutOrStdout())
	if p == nil {
		return
	}
	defer closer()

	menu := ui.NewMenu(taskStore(), providers(), builder(), p,
		ui.OutputRoot(config.Output),
		ui.PlannerOptions(plannerOptions()...),
		ui.MenuLogger(appLogger),
	)
	if err := menu.Run(ctx); err != nil {
		wrapFatalln("menu", err)
	}
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
