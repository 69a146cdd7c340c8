package cmd

import (
	"github.com/easypatcher/easypatcher/pkg/bundle"
	"github.com/easypatcher/easypatcher/pkg/deploy"
	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/easypatcher/easypatcher/pkg/ui"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a patch bundle to its targets",
	Long: `Apply a patch bundle to the target roots registered beside it.

This is the same protocol as the apply.sh script of the bundle:

  - the bundled files are verified against the manifest checksums;
  - every affected path of every target is copied into a fresh bak_<timestamp>
    directory beside the bundle, and nothing is written when that fails;
  - deletions are applied first, then the bundled files are written. A failed
    write is reported and does not stop the others.

Without --yes, the configure / apply / exit menu is started.
With --dry-run, the planned operations and diffs are printed instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := newContext()
		defer cancel()
		w := cmd.OutOrStdout()
		f := easypatcherFlags.apply

		if !DieIfNotDirectory(f.bundle) {
			return
		}
		b, err := bundle.Open(nil, f.bundle)
		if err != nil {
			wrapFatalln("failed to open bundle", err)
			return
		}
		targets := deploy.NewTargets(nil, b.Dir)
		for _, root := range f.addTargets {
			if err = targets.Add(root); err != nil {
				wrapFatalln("failed to register target", err)
				return
			}
		}
		applier := deploy.NewApplier(b, deploy.Logger(appLogger))

		if !f.yes && !f.dryRun {
			r, closer, err := newLineReader()
			if err != nil {
				wrapFatalln("no terminal to run the apply menu, use --yes or --dry-run", err)
				return
			}
			defer closer()
			if err = deploy.RunMenu(ctx, ui.NewConsole(ui.NewPrompter(r, w)), targets, applier); err != nil && !errors.Is(err, ui.ErrAborted) {
				wrapFatalln("apply menu", err)
			}
			return
		}

		roots, err := targets.Load()
		if err != nil {
			wrapFatalln("failed to load targets", err)
			return
		}
		if f.dryRun {
			if err = applier.Preview(w, roots); err != nil {
				wrapFatalln("failed to preview", err)
			}
			return
		}
		report, err := applier.Apply(ctx, roots)
		deploy.PrintReport(printer{w: w}, report, err)
		if err != nil {
			osExit(1)
		}
	},
}

func init() {
	addBundleFlag(applyCmd)
	addTargetFlag(applyCmd)
	addYesFlag(applyCmd, &easypatcherFlags.apply.yes, "Apply to the registered targets without the menu")
	addDryRunFlag(applyCmd)
	rootCmd.AddCommand(applyCmd)
}
