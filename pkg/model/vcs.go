package model

import (
	"fmt"
	"strings"
)

// VCSKind identifies the version control system of a project
type VCSKind uint8

const (
	// VCSUnknown is a directory not managed by a supported VCS
	VCSUnknown VCSKind = iota
	// VCSGit is a git working tree
	VCSGit
	// VCSSvn is a subversion working copy
	VCSSvn
)

var vcsNames = map[VCSKind]string{
	VCSUnknown: "unknown",
	VCSGit:     "git",
	VCSSvn:     "svn",
}

func (k VCSKind) String() string {
	if s, ok := vcsNames[k]; ok {
		return s
	}
	return vcsNames[VCSUnknown]
}

// Supported is true for the kinds that have a history provider
func (k VCSKind) Supported() bool {
	return k == VCSGit || k == VCSSvn
}

// MarshalText implements encoding.TextMarshaler
func (k VCSKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *VCSKind) UnmarshalText(data []byte) error {
	kind, err := ParseVCSKind(string(data))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseVCSKind parses the textual name of a VCS kind
func ParseVCSKind(s string) (VCSKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "git":
		return VCSGit, nil
	case "svn", "subversion":
		return VCSSvn, nil
	case "unknown", "":
		return VCSUnknown, nil
	default:
		return VCSUnknown, fmt.Errorf("invalid vcs kind %q", s)
	}
}
