package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/easypatcher/easypatcher/pkg/ui"
	"github.com/easypatcher/easypatcher/pkg/vcs"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var projectHistoryCmd = &cobra.Command{
	Use:     "history",
	Short:   "List the revisions of a working copy",
	Aliases: []string{"log"},
	Long: `List the revisions of a working copy, newest first.

With --revision, list the files changed by that revision instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := newContext()
		defer cancel()

		dir, err := filepath.Abs(easypatcherFlags.project.path)
		if err != nil {
			wrapFatalln("invalid path", err)
			return
		}
		if !DieIfNotDirectory(dir) {
			return
		}
		kind := vcs.Detect(nil, dir)
		provider, err := providers()(kind)
		if err != nil {
			wrapFatalln("failed to open project", err)
			return
		}
		w := cmd.OutOrStdout()

		if rev := easypatcherFlags.project.revision; rev != "" {
			id, err := vcs.NormalizeRevision(kind, rev)
			if err != nil {
				wrapFatalln("invalid revision", err)
				return
			}
			entries, err := provider.ChangedFiles(ctx, dir, id)
			if err != nil {
				wrapFatalln("failed to list changed files", err)
				return
			}
			ui.PrintChanges(w, entries)
			return
		}

		limit := easypatcherFlags.project.limit
		if limit == 0 {
			limit = historyLimit(kind)
		}
		history, err := provider.History(ctx, dir, limit)
		if err != nil {
			wrapFatalln("failed to query history", err)
			return
		}
		if notice := vcs.Notice(kind, len(history)); notice != "" {
			fmt.Fprintln(w, color.YellowString("%s", notice))
			return
		}
		ui.PrintHistory(w, history)
	},
}

func init() {
	requireFlags(projectHistoryCmd, addProjectPathFlag(projectHistoryCmd))
	addRevisionFlag(projectHistoryCmd)
	addLimitFlag(projectHistoryCmd)
	projectCmd.AddCommand(projectHistoryCmd)
}
