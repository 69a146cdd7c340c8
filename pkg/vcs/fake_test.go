package vcs

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner answers canned outputs keyed by the joined command arguments
type fakeRunner struct {
	t       testing.TB
	outputs map[string]string
	errs    map[string]string
	calls   []string
}

func newFakeRunner(t testing.TB) *fakeRunner {
	return &fakeRunner{t: t, outputs: map[string]string{}, errs: map[string]string{}}
}

func (f *fakeRunner) on(cmd, output string) *fakeRunner {
	f.outputs[cmd] = output
	return f
}

func (f *fakeRunner) fail(cmd, stderr string) *fakeRunner {
	f.errs[cmd] = stderr
	return f
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	cmd := strings.Join(args, " ")
	f.calls = append(f.calls, cmd)
	if stderr, ok := f.errs[cmd]; ok {
		return nil, &ExecError{Binary: "fake", Args: args, Stderr: stderr, Err: errors.New("exit status 1")}
	}
	out, ok := f.outputs[cmd]
	if !ok {
		f.t.Errorf("unexpected command: %s", cmd)
		return nil, &ExecError{Binary: "fake", Args: args, Err: errors.New("exit status 2")}
	}
	return []byte(out), nil
}
