package ui

import (
	"context"
	"fmt"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/patch"
	"github.com/fatih/color"
)

var _ patch.Selector = &Selector{}

// Selector asks the operator which revisions to include, and to confirm the plan
type Selector struct {
	p *Prompter
}

// NewSelector builds an interactive selector
func NewSelector(p *Prompter) *Selector {
	return &Selector{p: p}
}

// SelectRevisions implements patch.Selector
func (s *Selector) SelectRevisions(_ context.Context, project model.Project, history []model.RevisionRecord) ([]string, error) {
	title := fmt.Sprintf("%s %s", project.Name(), color.HiBlackString("(%s, %d revisions)", project.VCS, len(history)))
	selected, err := s.p.MultiSelect(title, revisionItems(history))
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(selected))
	for i, idx := range selected {
		ids[i] = history[idx].ID
	}
	return ids, nil
}

// ConfirmPlan implements patch.Selector
func (s *Selector) ConfirmPlan(_ context.Context, plan *patch.Plan) (bool, error) {
	PrintPlan(s.p.Out(), plan)
	return s.p.Confirm("Build these patches?")
}

// deferredSelector selects interactively and leaves confirmation to a later menu state
type deferredSelector struct {
	*Selector
}

func (deferredSelector) ConfirmPlan(context.Context, *patch.Plan) (bool, error) {
	return true, nil
}
