package deploy

import (
	"context"
	"fmt"

	"github.com/easypatcher/easypatcher/pkg/errors"
)

// Menu entries of the apply tool
const (
	MenuConfigure = iota
	MenuApply
	MenuExit
)

// MenuItems are the labels of the apply tool menu, in order
var MenuItems = []string{"configure target", "apply patch", "exit"}

// Console is the operator side of the apply menu
type Console interface {
	Menu(title string, items []string) (int, error)
	Input(prompt string) (string, error)
	Println(a ...interface{})
}

// RunMenu loops over configure target / apply patch / exit until exit is chosen.
// Configure and apply failures are reported and the menu goes on.
func RunMenu(ctx context.Context, console Console, targets *Targets, applier *Applier) error {
	title := fmt.Sprintf("easypatcher %s %s", applier.bundle.Manifest.Project.Name(), applier.bundle.Manifest.Label)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := console.Menu(title, MenuItems)
		if err != nil {
			return err
		}
		switch choice {
		case MenuConfigure:
			root, err := console.Input("Target root directory")
			if err != nil {
				return err
			}
			if err := targets.Add(root); err != nil {
				console.Println(err)
				continue
			}
			console.Println("Registered target:", root)
		case MenuApply:
			roots, err := targets.Load()
			if err != nil {
				console.Println(err)
				continue
			}
			report, err := applier.Apply(ctx, roots)
			PrintReport(console, report, err)
		case MenuExit:
			return nil
		default:
			console.Println("Unknown choice")
		}
	}
}

// PrintReport summarizes an apply on the console
func PrintReport(console interface{ Println(...interface{}) }, report *Report, err error) {
	switch {
	case report == nil && errors.Is(err, ErrBackupIncomplete):
		console.Println("Backup failed: nothing was written.", err)
	case report == nil && err != nil:
		console.Println("Apply aborted:", err)
	case report == nil:
	case len(report.Failures) > 0:
		console.Println("Backup written to", report.Backup)
		console.Println(fmt.Sprintf("Patch applied with %d failure(s):", len(report.Failures)))
		for _, f := range report.Failures {
			console.Println(" ", f.Error())
		}
	default:
		console.Println("Backup written to", report.Backup)
		console.Println(fmt.Sprintf("Patch applied: %d written, %d deleted.", len(report.Written), len(report.Deleted)))
	}
}
