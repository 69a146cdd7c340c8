package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner abstracts the execution of a VCS binary in a working copy
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// ExecError is returned by ExecRunner when the command exits with an error
type ExecError struct {
	Binary string
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %s", e.Binary, summarizeArgs(e.Args), msg)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// ExecRunner executes a VCS binary
type ExecRunner struct {
	Binary string
	l      *zap.Logger
}

// NewExecRunner builds a runner for a binary, looked up in PATH when not absolute
func NewExecRunner(binary string, l *zap.Logger) *ExecRunner {
	if l == nil {
		l = zap.NewNop()
	}
	return &ExecRunner{Binary: binary, l: l}
}

// Run the binary in dir, returning its standard output
func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Dir = dir
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	e.l.Debug("running vcs command", zap.String("dir", dir), zap.String("binary", e.Binary), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		return nil, &ExecError{
			Binary: e.Binary,
			Args:   args,
			Stderr: strings.TrimSpace(errb.String()),
			Err:    err,
		}
	}
	return out.Bytes(), nil
}

// summarizeArgs keeps the leading sub-command words, stopping at the first flag or operand
func summarizeArgs(args []string) string {
	safe := make([]string, 0, 2)
	for _, a := range args {
		if a == "" || strings.HasPrefix(a, "-") || strings.ContainsAny(a, ":/@=") {
			break
		}
		safe = append(safe, a)
		if len(safe) == 2 {
			break
		}
	}
	if len(safe) == 0 {
		return "<command>"
	}
	return strings.Join(safe, " ")
}
