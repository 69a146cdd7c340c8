package cmd

import (
	"fmt"
	"io"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/patch"
	"github.com/easypatcher/easypatcher/pkg/taskstore"
	"github.com/easypatcher/easypatcher/pkg/ui"
	"github.com/easypatcher/easypatcher/pkg/vcs"
)

// newLineReader opens the terminal for prompts. Patched in tests.
var newLineReader = func() (ui.LineReader, func(), error) {
	rl, err := ui.NewReadline()
	if err != nil {
		return nil, nil, err
	}
	return rl, func() { _ = rl.Close() }, nil
}

func newPrompter(w io.Writer) (*ui.Prompter, func()) {
	r, closer, err := newLineReader()
	if err != nil {
		wrapFatalln("cannot open terminal", err)
		return nil, func() {}
	}
	return ui.NewPrompter(r, w), closer
}

func taskStore() *taskstore.Store {
	return taskstore.New(config.Tasks, taskstore.Logger(appLogger))
}

func providers() patch.ProviderFunc {
	return func(kind model.VCSKind) (vcs.Provider, error) {
		return vcs.New(kind,
			vcs.GitBinary(config.Git.Binary),
			vcs.GitBackend(config.Git.Backend),
			vcs.SvnBinary(config.Svn.Binary),
			vcs.Encoding(config.VCS.Encoding),
			vcs.Logger(appLogger),
		)
	}
}

func historyLimit(kind model.VCSKind) int {
	switch kind {
	case model.VCSGit:
		return config.History.GitLimit
	case model.VCSSvn:
		return config.History.SvnLimit
	default:
		return 0
	}
}

func plannerOptions() []patch.PlannerOption {
	return []patch.PlannerOption{
		patch.HistoryLimit(model.VCSGit, config.History.GitLimit),
		patch.HistoryLimit(model.VCSSvn, config.History.SvnLimit),
		patch.PlannerLogger(appLogger),
	}
}

func builder() *patch.Builder {
	return patch.NewBuilder(providers(),
		patch.BuilderLogger(appLogger),
		patch.StageExtensions(config.Stage.Extensions),
	)
}

// printer writes lines to a command output
type printer struct {
	w io.Writer
}

func (p printer) Println(a ...interface{}) {
	fmt.Fprintln(p.w, a...)
}
