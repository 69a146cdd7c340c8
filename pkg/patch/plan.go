package patch

import (
	"context"
	"sort"
	"strings"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/vcs"
	"github.com/easypatcher/easypatcher/pkg/vcs/status"
	"go.uber.org/zap"
)

// Selector picks revisions and confirms plans on behalf of the operator
type Selector interface {
	// SelectRevisions returns the ids of the revisions to include, among history
	SelectRevisions(ctx context.Context, project model.Project, history []model.RevisionRecord) ([]string, error)
	// ConfirmPlan is asked once, before anything is written
	ConfirmPlan(ctx context.Context, plan *Plan) (bool, error)
}

// ProviderFunc yields the history provider of a VCS kind
type ProviderFunc func(model.VCSKind) (vcs.Provider, error)

// Exclusion records a project or revision left out of the run, and why
type Exclusion struct {
	Project  model.Project
	Revision string
	Reason   error
}

func (e Exclusion) String() string {
	if e.Revision != "" {
		return e.Project.Name() + "@" + e.Revision + ": " + e.Reason.Error()
	}
	return e.Project.Name() + ": " + e.Reason.Error()
}

// ProjectPlan is the merged change set of one project
type ProjectPlan struct {
	Project model.Project
	// Revisions folded, oldest first
	Revisions []model.RevisionRecord
	Changes   *model.ChangeSet
	// Excluded revisions
	Excluded []Exclusion
}

// Plan of a run, ready for confirmation
type Plan struct {
	Task     model.Task
	Projects []ProjectPlan
	// Skipped projects
	Skipped []Exclusion
}

// Empty is true when no project has anything to patch
func (p *Plan) Empty() bool {
	return len(p.Projects) == 0
}

// PlannerOption configures a Planner
type PlannerOption func(*Planner)

// HistoryLimit caps the number of revisions listed for a VCS kind. Zero is unbounded.
func HistoryLimit(kind model.VCSKind, limit int) PlannerOption {
	return func(p *Planner) {
		p.limits[kind] = limit
	}
}

// PlannerLogger sets the logger of the planner
func PlannerLogger(l *zap.Logger) PlannerOption {
	return func(p *Planner) {
		if l != nil {
			p.l = l
		}
	}
}

// Planner computes run plans
type Planner struct {
	providers ProviderFunc
	selector  Selector
	limits    map[model.VCSKind]int
	l         *zap.Logger
}

// DefaultSvnLimit is the default number of svn revisions listed
const DefaultSvnLimit = 50

// NewPlanner builds a planner
func NewPlanner(providers ProviderFunc, selector Selector, opts ...PlannerOption) *Planner {
	p := &Planner{
		providers: providers,
		selector:  selector,
		limits:    map[model.VCSKind]int{model.VCSSvn: DefaultSvnLimit},
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(p)
	}
	return p
}

// Plan a run over all projects of a task, in registration order.
//
// Projects that cannot be queried, or for which nothing is selected, are
// skipped. Selector errors abort the planning. Declining the plan returns
// ErrDeclined.
func (p *Planner) Plan(ctx context.Context, task model.Task) (*Plan, error) {
	plan := &Plan{Task: task}
	for _, project := range task.Projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pp, skip, err := p.planProject(ctx, project)
		if err != nil {
			return nil, err
		}
		if skip != nil {
			p.l.Info("project skipped", zap.String("project", project.Path), zap.Error(skip.Reason))
			plan.Skipped = append(plan.Skipped, *skip)
			continue
		}
		plan.Projects = append(plan.Projects, *pp)
	}

	if plan.Empty() {
		return plan, nil
	}
	ok, err := p.selector.ConfirmPlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDeclined
	}
	return plan, nil
}

func (p *Planner) planProject(ctx context.Context, project model.Project) (*ProjectPlan, *Exclusion, error) {
	skip := func(reason error) (*ProjectPlan, *Exclusion, error) {
		return nil, &Exclusion{Project: project, Reason: reason}, nil
	}
	if !project.VCS.Supported() {
		return skip(status.ErrUnsupported)
	}
	provider, err := p.providers(project.VCS)
	if err != nil {
		return nil, nil, err
	}

	history, err := provider.History(ctx, project.Path, p.limits[project.VCS])
	if err != nil {
		return skip(err)
	}
	if len(history) == 0 {
		return skip(ErrNoHistory)
	}

	ids, err := p.selector.SelectRevisions(ctx, project, history)
	if err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return skip(ErrNothingSelected)
	}

	pp := &ProjectPlan{Project: project, Changes: model.NewChangeSet()}
	for _, pos := range p.foldOrder(pp, history, ids) {
		rev := history[pos]
		entries, err := provider.ChangedFiles(ctx, project.Path, rev.ID)
		if err != nil {
			p.l.Warn("revision excluded", zap.String("project", project.Path), zap.String("revision", rev.ID), zap.Error(err))
			pp.Excluded = append(pp.Excluded, Exclusion{Project: project, Revision: rev.ID, Reason: err})
			continue
		}
		pp.Revisions = append(pp.Revisions, rev)
		pp.Changes.FoldRevision(rev.ID, entries)
	}

	if len(pp.Revisions) == 0 {
		return nil, &Exclusion{Project: project, Reason: ErrNothingSelected.Wrapf("all selected revisions excluded")}, nil
	}
	if pp.Changes.Len() == 0 {
		return skip(ErrNoChanges)
	}
	return pp, nil, nil
}

// foldOrder resolves selected ids to history positions, oldest first.
// Ids absent from the listed history are excluded.
func (p *Planner) foldOrder(pp *ProjectPlan, history []model.RevisionRecord, ids []string) []int {
	seen := make(map[int]struct{}, len(ids))
	positions := make([]int, 0, len(ids))
	for _, id := range ids {
		pos := lookup(pp.Project.VCS, history, id)
		if pos < 0 {
			pp.Excluded = append(pp.Excluded, Exclusion{
				Project:  pp.Project,
				Revision: id,
				Reason:   status.ErrRevisionNotFound.Wrapf("%s is not in the listed history", id),
			})
			continue
		}
		if _, dup := seen[pos]; dup {
			continue
		}
		seen[pos] = struct{}{}
		positions = append(positions, pos)
	}
	// history is newest first
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	return positions
}

// lookup finds a revision by id. Git ids may be abbreviated, as long as they are unambiguous.
func lookup(kind model.VCSKind, history []model.RevisionRecord, id string) int {
	norm, err := vcs.NormalizeRevision(kind, id)
	if err != nil {
		return -1
	}
	for i, r := range history {
		if r.ID == norm {
			return i
		}
	}
	if kind != model.VCSGit {
		return -1
	}
	found := -1
	for i, r := range history {
		if strings.HasPrefix(strings.ToLower(r.ID), norm) {
			if found >= 0 {
				return -1
			}
			found = i
		}
	}
	return found
}
