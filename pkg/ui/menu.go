package ui

import (
	"context"
	"fmt"

	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/patch"
	"github.com/easypatcher/easypatcher/pkg/taskstore"
	"github.com/easypatcher/easypatcher/pkg/vcs"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// MenuOption configures the operator menu
type MenuOption func(*Menu)

// MenuLogger sets the logger of the menu
func MenuLogger(l *zap.Logger) MenuOption {
	return func(m *Menu) {
		if l != nil {
			m.l = l
		}
	}
}

// OutputRoot is where bundles go for tasks without their own output directory
func OutputRoot(dir string) MenuOption {
	return func(m *Menu) {
		m.output = dir
	}
}

// PlannerOptions are passed to the planner of every patch selection
func PlannerOptions(opts ...patch.PlannerOption) MenuOption {
	return func(m *Menu) {
		m.plannerOpts = append(m.plannerOpts, opts...)
	}
}

// Menu is the interactive operator menu over the task store
type Menu struct {
	store       *taskstore.Store
	providers   patch.ProviderFunc
	builder     *patch.Builder
	p           *Prompter
	output      string
	plannerOpts []patch.PlannerOption
	l           *zap.Logger

	state State
	task  string
	plan  *patch.Plan
}

// NewMenu builds the operator menu
func NewMenu(store *taskstore.Store, providers patch.ProviderFunc, builder *patch.Builder, p *Prompter, opts ...MenuOption) *Menu {
	m := &Menu{
		store:     store,
		providers: providers,
		builder:   builder,
		p:         p,
		output:    "patches",
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(m)
	}
	return m
}

// State of the menu
func (m *Menu) State() State {
	return m.state
}

// Run the menu until the operator quits or closes the input
func (m *Menu) Run(ctx context.Context) error {
	m.state = MainMenu
	for m.state != Exit {
		if err := ctx.Err(); err != nil {
			return err
		}
		event, err := m.handle(ctx)
		if errors.Is(err, ErrAborted) {
			event, err = EventQuit, nil
		}
		if err != nil {
			return err
		}
		next, err := Transition(m.state, event)
		if err != nil {
			m.l.Warn("menu transition ignored", zap.Error(err))
			continue
		}
		m.l.Debug("menu transition", zap.Stringer("from", m.state), zap.Stringer("event", event), zap.Stringer("to", next))
		m.state = next
	}
	return nil
}

func (m *Menu) handle(ctx context.Context) (Event, error) {
	switch m.state {
	case MainMenu:
		return m.mainMenu()
	case TaskMenu:
		return m.taskMenu()
	case PatchSelection:
		return m.patchSelection(ctx)
	case ConfirmApply:
		return m.confirmApply(ctx)
	default:
		return EventQuit, nil
	}
}

func (m *Menu) warn(err error) {
	m.p.Println(color.RedString("%v", err))
}

func (m *Menu) mainMenu() (Event, error) {
	tasks, err := m.store.Load()
	if err != nil {
		return EventQuit, err
	}
	items := make([]string, 0, len(tasks)+2)
	for _, t := range tasks {
		items = append(items, fmt.Sprintf("%s %s", t.Name, color.HiBlackString("(%d projects)", len(t.Projects))))
	}
	items = append(items, "create task", "exit")

	choice, err := m.p.Select("Tasks", items)
	if err != nil {
		return EventQuit, err
	}
	switch {
	case choice < len(tasks):
		m.task = tasks[choice].Name
		return EventSelectTask, nil
	case choice == len(tasks):
		name, err := m.p.Input("Task name")
		if err != nil {
			return EventQuit, err
		}
		if err := m.store.AddTask(name); err != nil {
			m.warn(err)
		}
		return EventStay, nil
	default:
		return EventQuit, nil
	}
}

const (
	taskBuild = iota
	taskAddProject
	taskSetArtifact
	taskSetOutput
	taskDelete
	taskBack
)

var taskItems = []string{"build patch", "add project", "set artifact", "set output directory", "delete task", "back"}

func (m *Menu) taskMenu() (Event, error) {
	task, err := m.store.Get(m.task)
	if err != nil {
		m.warn(err)
		return EventBack, nil
	}
	PrintTask(m.p.Out(), task)

	choice, err := m.p.Select("Task "+task.Name, taskItems)
	if err != nil {
		return EventQuit, err
	}
	switch choice {
	case taskBuild:
		return EventBuildPatch, nil
	case taskAddProject:
		return EventStay, m.addProject()
	case taskSetArtifact:
		return EventStay, m.setArtifact(task)
	case taskSetOutput:
		dir, err := m.p.Input("Output directory (empty for default)")
		if err != nil {
			return EventQuit, err
		}
		if err := m.store.SetOutput(m.task, dir); err != nil {
			m.warn(err)
		}
		return EventStay, nil
	case taskDelete:
		ok, err := m.p.Confirm(fmt.Sprintf("Delete task %q?", task.Name))
		if err != nil || !ok {
			return EventStay, err
		}
		if err := m.store.DeleteTask(task.Name); err != nil {
			m.warn(err)
			return EventStay, nil
		}
		m.task = ""
		return EventTaskDeleted, nil
	default:
		return EventBack, nil
	}
}

func (m *Menu) addProject() error {
	path, err := m.p.Input("Project directory")
	if err != nil {
		return err
	}
	project, err := m.store.AddProject(m.task, path)
	if err != nil {
		m.warn(err)
		return nil
	}
	if !project.VCS.Supported() {
		m.p.Println(color.YellowString("%s: %s", project.Path, vcs.NoticeUnknownVCS))
		return nil
	}
	m.p.Println("Added", project)
	return nil
}

func (m *Menu) setArtifact(task model.Task) error {
	if len(task.Projects) == 0 {
		m.p.Println("No project in this task")
		return nil
	}
	names := make([]string, len(task.Projects))
	for i, p := range task.Projects {
		names[i] = p.Path
	}
	choice, err := m.p.Select("Project", names)
	if err != nil {
		return err
	}
	artifact, err := m.p.Input("Artifact path (empty to clear)")
	if err != nil {
		return err
	}
	if err := m.store.SetArtifact(m.task, task.Projects[choice].Path, artifact); err != nil {
		m.warn(err)
	}
	return nil
}

func (m *Menu) patchSelection(ctx context.Context) (Event, error) {
	task, err := m.store.Get(m.task)
	if err != nil {
		m.warn(err)
		return EventBack, nil
	}
	planner := patch.NewPlanner(m.providers, deferredSelector{NewSelector(m.p)}, append([]patch.PlannerOption{patch.PlannerLogger(m.l)}, m.plannerOpts...)...)
	plan, err := planner.Plan(ctx, task)
	if err != nil {
		if errors.Is(err, ErrAborted) {
			return EventQuit, err
		}
		m.warn(err)
		return EventBack, nil
	}
	if plan.Empty() {
		PrintPlan(m.p.Out(), plan)
		m.p.Println("Nothing to patch")
		return EventBack, nil
	}
	m.plan = plan
	return EventSelectionDone, nil
}

func (m *Menu) confirmApply(ctx context.Context) (Event, error) {
	plan := m.plan
	m.plan = nil
	if plan == nil {
		return EventBack, nil
	}
	PrintPlan(m.p.Out(), plan)
	ok, err := m.p.Confirm("Build these patches?")
	if err != nil {
		return EventQuit, err
	}
	if !ok {
		m.p.Println("Declined: nothing was written")
		return EventDecline, nil
	}

	output := plan.Task.Output
	if output == "" {
		output = m.output
	}
	res, err := m.builder.Build(ctx, plan, output)
	PrintResult(m.p.Out(), res)
	if err != nil {
		m.warn(err)
	}
	return EventConfirm, nil
}
