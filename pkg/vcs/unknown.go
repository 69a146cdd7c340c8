package vcs

import (
	"context"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/vcs/status"
)

type unknown struct{}

func (unknown) Kind() model.VCSKind { return model.VCSUnknown }

func (unknown) History(context.Context, string, int) ([]model.RevisionRecord, error) {
	return []model.RevisionRecord{}, nil
}

func (unknown) ChangedFiles(context.Context, string, string) ([]model.ChangeEntry, error) {
	return nil, status.ErrUnsupported
}

func (unknown) Content(context.Context, string, string, string) ([]byte, error) {
	return nil, status.ErrUnsupported
}
