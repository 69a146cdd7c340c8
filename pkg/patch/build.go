package patch

import (
	"context"
	"fmt"
	"time"

	"github.com/easypatcher/easypatcher/pkg/bundle"
	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/stage"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Output of one project in a run
type Output struct {
	Project  model.Project
	Dir      string
	Manifest *model.PatchManifest
	// Err is set when the bundle could not be written
	Err error
	// ArtifactErr is set when the artifact was left out of the bundle
	ArtifactErr error
}

// Result of a run
type Result struct {
	RunID   string
	Label   string
	Outputs []Output
}

// Failed counts the projects without a bundle
func (r *Result) Failed() int {
	n := 0
	for _, o := range r.Outputs {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// BuilderFS sets the file system for artifacts and outputs
func BuilderFS(fs afero.Fs) BuilderOption {
	return func(b *Builder) {
		if fs != nil {
			b.fs = fs
		}
	}
}

// BuilderLogger sets the logger of the builder
func BuilderLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.l = l
		}
	}
}

// StageExtensions overrides the archive extensions of artifacts
func StageExtensions(exts []string) BuilderOption {
	return func(b *Builder) {
		b.extensions = exts
	}
}

// Clock overrides the time source of run labels
func Clock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// Builder writes the bundles of a confirmed plan
type Builder struct {
	providers  ProviderFunc
	fs         afero.Fs
	extensions []string
	now        func() time.Time
	l          *zap.Logger
}

// NewBuilder builds a Builder
func NewBuilder(providers ProviderFunc, opts ...BuilderOption) *Builder {
	b := &Builder{
		providers: providers,
		fs:        afero.NewOsFs(),
		now:       time.Now,
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(b)
	}
	return b
}

// Build one bundle per planned project under outputRoot, with a label shared by the run.
//
// A project that fails does not stop the others: the returned error
// combines the failures, and each Output carries its own.
func (b *Builder) Build(ctx context.Context, plan *Plan, outputRoot string) (*Result, error) {
	now := b.now()
	res := &Result{
		RunID: uuid.New().String(),
		Label: model.RunLabel(now),
	}
	assembler := bundle.NewAssembler(outputRoot, bundle.FS(b.fs), bundle.Logger(b.l))
	stager := stage.New(stage.FS(b.fs), stage.Extensions(b.extensions), stage.Logger(b.l))

	var errs error
	for _, pp := range plan.Projects {
		if err := ctx.Err(); err != nil {
			return res, multierr.Append(errs, err)
		}
		out := b.buildProject(ctx, assembler, stager, pp, res, now)
		if out.Err != nil {
			b.l.Error("project bundle failed", zap.String("project", pp.Project.Path), zap.Error(out.Err))
			errs = multierr.Append(errs, ErrBuild.Wrap(fmt.Errorf("%s: %w", pp.Project.Name(), out.Err)))
		}
		res.Outputs = append(res.Outputs, out)
	}
	return res, errs
}

func (b *Builder) buildProject(ctx context.Context, assembler *bundle.Assembler, stager *stage.Stager, pp ProjectPlan, res *Result, now time.Time) Output {
	m := model.NewPatchManifest(pp.Project, pp.Revisions, pp.Changes)
	m.RunID = res.RunID
	m.Label = res.Label
	m.GeneratedAt = now.UTC()
	out := Output{Project: pp.Project, Manifest: m}

	provider, err := b.providers(pp.Project.VCS)
	if err != nil {
		out.Err = err
		return out
	}

	in := bundle.Input{
		Manifest: m,
		Content: func(ctx context.Context, e model.ChangeEntry) ([]byte, error) {
			return provider.Content(ctx, pp.Project.Path, e.Revision, e.Path)
		},
	}
	if pp.Project.Artifact != "" {
		staged, err := stager.Stage(pp.Project.Artifact)
		if err != nil {
			b.l.Warn("artifact not included", zap.String("artifact", pp.Project.Artifact), zap.Error(err))
			out.ArtifactErr = err
			m.Artifact = model.ArtifactInfo{Source: pp.Project.Artifact, Error: err.Error()}
		} else {
			in.Staged = &staged
		}
	}

	out.Dir, out.Err = assembler.Assemble(ctx, in)
	return out
}
