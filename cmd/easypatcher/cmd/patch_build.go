package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/easypatcher/easypatcher/pkg/patch"
	"github.com/easypatcher/easypatcher/pkg/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var patchBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the patch bundles of a task",
	Long: `Build the patch bundles of a task, one per project.

For every project, the selected revisions are folded oldest first into one
change set. The merged change sets are shown for confirmation before anything
is written. Each bundle holds the replacement files, the build artifact,
a manifest.json and the apply.sh script to run on the targets.

Revisions are picked interactively, unless --select or --all is given:

  easypatcher patch build --task release --select web=1234,1240 --select api=9f3e2a1 --yes
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := newContext()
		defer cancel()
		w := cmd.OutOrStdout()

		task, err := taskStore().Get(easypatcherFlags.task.name)
		if err != nil {
			wrapFatalln("failed to load task", err)
			return
		}

		selector, closer, err := patchSelector(w)
		if err != nil {
			wrapFatalln("invalid selection", err)
			return
		}
		defer closer()

		plan, err := patch.NewPlanner(providers(), selector, plannerOptions()...).Plan(ctx, task)
		switch {
		case errors.Is(err, patch.ErrDeclined):
			fmt.Fprintln(w, "Declined: nothing was written")
			return
		case errors.Is(err, ui.ErrAborted):
			return
		case err != nil:
			wrapFatalln("failed to plan patches", err)
			return
		}
		if plan.Empty() {
			ui.PrintPlan(w, plan)
			fmt.Fprintln(w, color.YellowString("Nothing to patch"))
			return
		}

		output := easypatcherFlags.patch.output
		if output == "" {
			output = task.Output
		}
		if output == "" {
			output = config.Output
		}
		res, err := builder().Build(ctx, plan, output)
		ui.PrintResult(w, res)
		if err != nil {
			wrapFatalln("some bundles failed", err)
		}
	},
}

// confirmed prints the plan and accepts it
type confirmed struct {
	patch.Selector
	w io.Writer
}

func (c confirmed) ConfirmPlan(_ context.Context, plan *patch.Plan) (bool, error) {
	ui.PrintPlan(c.w, plan)
	return true, nil
}

func patchSelector(w io.Writer) (patch.Selector, func(), error) {
	f := easypatcherFlags.patch
	if len(f.selections) > 0 || f.all {
		choices, err := patch.ParseChoices(f.selections)
		if err != nil {
			return nil, nil, err
		}
		static := &patch.StaticSelector{Choices: choices, All: f.all, Yes: f.yes}
		if f.yes {
			return confirmed{Selector: static, w: w}, func() {}, nil
		}
		p, closer := newPrompter(w)
		if p == nil {
			return nil, nil, fmt.Errorf("no terminal to confirm the plan, use --yes")
		}
		interactive := ui.NewSelector(p)
		static.Confirm = interactive.ConfirmPlan
		return static, closer, nil
	}

	p, closer := newPrompter(w)
	if p == nil {
		return nil, nil, fmt.Errorf("no terminal to select revisions, use --select or --all")
	}
	var selector patch.Selector = ui.NewSelector(p)
	if f.yes {
		selector = confirmed{Selector: selector, w: w}
	}
	return selector, closer, nil
}

func init() {
	requireFlags(patchBuildCmd, addTaskFlag(patchBuildCmd))
	addSelectFlag(patchBuildCmd)
	addAllFlag(patchBuildCmd)
	addYesFlag(patchBuildCmd, &easypatcherFlags.patch.yes, "Build without asking for confirmation")
	addPatchOutputFlag(patchBuildCmd)
	patchCmd.AddCommand(patchBuildCmd)
}
