package vcs

import (
	"context"
	"regexp"
	"strings"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/vcs/status"
	"go.uber.org/zap"
)

// Backends for git projects
const (
	BackendExec  = "exec"
	BackendGoGit = "gogit"
)

// User-facing notices for projects that yield nothing to select
const (
	NoticeNoHistory  = "no history"
	NoticeUnknownVCS = "not a recognized VCS project"
)

// Provider is the history of one kind of VCS.
//
// Revision records are returned newest first. Change entries carry paths
// relative to the working copy root, slash separated.
type Provider interface {
	Kind() model.VCSKind
	History(ctx context.Context, dir string, limit int) ([]model.RevisionRecord, error)
	ChangedFiles(ctx context.Context, dir, revision string) ([]model.ChangeEntry, error)
	Content(ctx context.Context, dir, revision, path string) ([]byte, error)
}

// Option configures providers
type Option func(*options)

type options struct {
	gitBinary string
	svnBinary string
	backend   string
	encoding  string
	runner    Runner
	l         *zap.Logger
}

// GitBinary sets the git executable
func GitBinary(bin string) Option {
	return func(o *options) {
		if bin != "" {
			o.gitBinary = bin
		}
	}
}

// SvnBinary sets the svn executable
func SvnBinary(bin string) Option {
	return func(o *options) {
		if bin != "" {
			o.svnBinary = bin
		}
	}
}

// GitBackend selects how git repositories are read (exec or gogit)
func GitBackend(backend string) Option {
	return func(o *options) {
		if backend != "" {
			o.backend = backend
		}
	}
}

// Encoding of the VCS text output, e.g. euc-kr. Defaults to UTF-8
func Encoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// WithRunner overrides the command runner of exec based providers
func WithRunner(r Runner) Option {
	return func(o *options) {
		o.runner = r
	}
}

// Logger for providers
func Logger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.l = l
		}
	}
}

func defaultOptions(opts []Option) *options {
	o := &options{
		gitBinary: "git",
		svnBinary: "svn",
		backend:   BackendExec,
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// New provider for a VCS kind. Unknown projects get a provider with no history.
func New(kind model.VCSKind, opts ...Option) (Provider, error) {
	o := defaultOptions(opts)
	dec, err := newDecoder(o.encoding)
	if err != nil {
		return nil, status.ErrConfig.Wrapf("encoding %q: %v", o.encoding, err)
	}

	switch kind {
	case model.VCSGit:
		switch strings.ToLower(o.backend) {
		case BackendExec:
			return newGit(o, dec), nil
		case BackendGoGit:
			return newGoGit(o), nil
		default:
			return nil, status.ErrConfig.Wrapf("unknown git backend %q", o.backend)
		}
	case model.VCSSvn:
		return newSvn(o, dec), nil
	default:
		return unknown{}, nil
	}
}

// Notice explains why a project has nothing to select, or is empty when it has
func Notice(kind model.VCSKind, revisions int) string {
	if !kind.Supported() {
		return NoticeUnknownVCS
	}
	if revisions == 0 {
		return NoticeNoHistory
	}
	return ""
}

var (
	rexGitID = regexp.MustCompile(`^[0-9a-fA-F]{4,64}$`)
	rexSvnID = regexp.MustCompile(`^[0-9]{1,10}$`)
)

// NormalizeRevision validates a revision identifier typed by an operator
func NormalizeRevision(kind model.VCSKind, id string) (string, error) {
	id = strings.TrimSpace(id)
	switch kind {
	case model.VCSGit:
		if rexGitID.MatchString(id) {
			return strings.ToLower(id), nil
		}
	case model.VCSSvn:
		id = strings.TrimPrefix(strings.TrimPrefix(id, "r"), "R")
		if rexSvnID.MatchString(id) {
			return id, nil
		}
	}
	return "", status.ErrRevisionNotFound.Wrapf("invalid %s revision id %q", kind, id)
}

// classify maps a runner error onto the provider sentinels
func classify(err error, notFound []string) error {
	if err == nil {
		return nil
	}
	if matchesAny(err, notFound) {
		return status.ErrRevisionNotFound.Wrap(err)
	}
	return status.ErrHistoryQuery.Wrap(err)
}

func matchesAny(err error, patterns []string) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range patterns {
		if strings.Contains(msg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
