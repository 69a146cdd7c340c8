package patch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/easypatcher/easypatcher/pkg/model"
)

// StaticSelector selects revisions from predefined choices, for non interactive runs
type StaticSelector struct {
	// Choices maps a project path or name to revision ids
	Choices map[string][]string
	// All selects the whole listed history of projects without choices
	All bool
	// Confirm decides on the plan. When nil, Yes is the answer.
	Confirm func(context.Context, *Plan) (bool, error)
	Yes     bool
}

// ParseChoices reads "project=id,id" arguments
func ParseChoices(args []string) (map[string][]string, error) {
	choices := make(map[string][]string, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, "=")
		if i <= 0 || i == len(arg)-1 {
			return nil, fmt.Errorf("invalid selection %q: expected project=id[,id...]", arg)
		}
		project := strings.TrimSpace(arg[:i])
		for _, id := range strings.Split(arg[i+1:], ",") {
			if id = strings.TrimSpace(id); id != "" {
				choices[project] = append(choices[project], id)
			}
		}
	}
	return choices, nil
}

// SelectRevisions implements Selector
func (s *StaticSelector) SelectRevisions(_ context.Context, project model.Project, history []model.RevisionRecord) ([]string, error) {
	for _, key := range []string{project.Path, filepath.Clean(project.Path), project.Name()} {
		if ids, ok := s.Choices[key]; ok {
			return ids, nil
		}
	}
	if !s.All {
		return nil, nil
	}
	ids := make([]string, len(history))
	for i, r := range history {
		ids[i] = r.ID
	}
	return ids, nil
}

// ConfirmPlan implements Selector
func (s *StaticSelector) ConfirmPlan(ctx context.Context, plan *Plan) (bool, error) {
	if s.Confirm != nil {
		return s.Confirm(ctx, plan)
	}
	return s.Yes, nil
}
