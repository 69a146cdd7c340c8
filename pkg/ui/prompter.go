package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/fatih/color"
)

// ErrAborted is returned when the operator closes the input (Ctrl-C, Ctrl-D)
var ErrAborted = errors.New("aborted by operator")

// ErrNoTerminal is returned when the standard input is not a terminal
var ErrNoTerminal = errors.New("standard input is not a terminal")

// LineReader reads one answer at a time. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// NewReadline opens a terminal line reader
func NewReadline() (*readline.Instance, error) {
	if !readline.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNoTerminal
	}
	return readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

// Prompter asks questions over a line reader
type Prompter struct {
	r   LineReader
	out io.Writer
}

// NewPrompter builds a prompter reading answers from r, writing menus to out
func NewPrompter(r LineReader, out io.Writer) *Prompter {
	return &Prompter{r: r, out: out}
}

// Out is the writer menus and tables go to
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Println writes a line of output
func (p *Prompter) Println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

func (p *Prompter) ask(prompt string) (string, error) {
	p.r.SetPrompt(prompt)
	line, err := p.r.Readline()
	if err != nil {
		if err == io.EOF || err == readline.ErrInterrupt {
			return "", ErrAborted.Wrap(err)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) list(title string, items []string) {
	if title != "" {
		fmt.Fprintln(p.out, color.New(color.Bold).Sprint(title))
	}
	for i, item := range items {
		fmt.Fprintf(p.out, "  %s %s\n", color.CyanString("%2d)", i+1), item)
	}
}

// Select asks for exactly one of items and returns its index. Invalid answers are asked again.
func (p *Prompter) Select(title string, items []string) (int, error) {
	p.list(title, items)
	for {
		answer, err := p.ask("choice> ")
		if err != nil {
			return -1, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		fmt.Fprintln(p.out, color.RedString("invalid choice %q: enter a number between 1 and %d", answer, len(items)))
	}
}

// MultiSelect asks for any number of items, as a list of numbers and ranges,
// "all", or nothing. Invalid answers are asked again.
func (p *Prompter) MultiSelect(title string, items []string) ([]int, error) {
	p.list(title, items)
	fmt.Fprintln(p.out, color.HiBlackString("select with 1,3,5-7 or all, empty for none"))
	for {
		answer, err := p.ask("select> ")
		if err != nil {
			return nil, err
		}
		selected, err := ParseSelection(answer, len(items))
		if err == nil {
			return selected, nil
		}
		fmt.Fprintln(p.out, color.RedString("%v", err))
	}
}

// Confirm asks a yes/no question. Anything but yes is a no.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.ask(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Input asks for a free form answer
func (p *Prompter) Input(prompt string) (string, error) {
	return p.ask(prompt + ": ")
}
