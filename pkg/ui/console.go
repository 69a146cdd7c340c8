package ui

import "github.com/easypatcher/easypatcher/pkg/deploy"

var _ deploy.Console = &Console{}

// Console serves the apply menu of a bundle with a prompter
type Console struct {
	p *Prompter
}

// NewConsole for the apply menu
func NewConsole(p *Prompter) *Console {
	return &Console{p: p}
}

// Menu implements deploy.Console
func (c *Console) Menu(title string, items []string) (int, error) {
	return c.p.Select(title, items)
}

// Input implements deploy.Console
func (c *Console) Input(prompt string) (string, error) {
	return c.p.Input(prompt)
}

// Println implements deploy.Console
func (c *Console) Println(a ...interface{}) {
	c.p.Println(a...)
}
