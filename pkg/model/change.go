package model

import (
	"fmt"
	"strings"
)

// ChangeKind qualifies how a path was affected by a revision
type ChangeKind uint8

const (
	// ChangeAdded is a new path
	ChangeAdded ChangeKind = iota + 1
	// ChangeModified is an updated path
	ChangeModified
	// ChangeDeleted is a removed path
	ChangeDeleted
	// ChangeRenamed is a path moved from OldPath
	ChangeRenamed
)

var changeKindStrings = map[ChangeKind]string{
	ChangeAdded:    "added",
	ChangeModified: "modified",
	ChangeDeleted:  "deleted",
	ChangeRenamed:  "renamed",
}

func (k ChangeKind) String() string {
	return changeKindStrings[k]
}

// Letter is the one-letter status code, as printed by VCS tools
func (k ChangeKind) Letter() string {
	switch k {
	case ChangeAdded:
		return "A"
	case ChangeModified:
		return "M"
	case ChangeDeleted:
		return "D"
	case ChangeRenamed:
		return "R"
	default:
		return "?"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k ChangeKind) MarshalText() ([]byte, error) {
	s, ok := changeKindStrings[k]
	if !ok {
		return nil, fmt.Errorf("invalid change kind %d", k)
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *ChangeKind) UnmarshalText(data []byte) error {
	s := strings.ToLower(string(data))
	for kind, name := range changeKindStrings {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("invalid change kind %q", string(data))
}

// ChangeEntry is one path affected by a revision.
//
// Paths are relative to the working copy root and slash separated.
type ChangeEntry struct {
	Kind     ChangeKind `json:"kind"`
	Path     string     `json:"path"`
	OldPath  string     `json:"oldPath,omitempty"`
	Revision string     `json:"revision,omitempty"`
	Dir      bool       `json:"dir,omitempty"`
}

// Writes tells if applying the entry writes bundled content at Path
func (e ChangeEntry) Writes() bool {
	return e.Kind == ChangeAdded || e.Kind == ChangeModified || e.Kind == ChangeRenamed
}

// Touched lists every relative path this entry mutates on a target
func (e ChangeEntry) Touched() []string {
	if e.Kind == ChangeRenamed && e.OldPath != "" {
		return []string{e.OldPath, e.Path}
	}
	return []string{e.Path}
}

func (e ChangeEntry) String() string {
	if e.Kind == ChangeRenamed {
		return fmt.Sprintf("%s %s -> %s", e.Kind.Letter(), e.OldPath, e.Path)
	}
	return fmt.Sprintf("%s %s", e.Kind.Letter(), e.Path)
}
