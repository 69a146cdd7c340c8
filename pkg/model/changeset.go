package model

import "sort"

// ChangeSet is the deduplicated set of changes of one project,
// keyed by relative path.
//
// Entries are folded in revision order, oldest first:
//   - a later entry for a path replaces the earlier one,
//   - a deleted path stays deleted, whatever comes after, though a
//     rename onto it still deletes its source,
//   - a rename removes its source path, and a superseded rename
//     leaves a deletion of its source path behind.
type ChangeSet struct {
	entries map[string]ChangeEntry
}

// NewChangeSet builds an empty change set
func NewChangeSet() *ChangeSet {
	return &ChangeSet{entries: make(map[string]ChangeEntry)}
}

// FoldRevision merges all the entries reported for one revision
func (cs *ChangeSet) FoldRevision(revision string, entries []ChangeEntry) {
	for _, e := range entries {
		if e.Revision == "" {
			e.Revision = revision
		}
		cs.Fold(e)
	}
}

// Fold merges a single entry
func (cs *ChangeSet) Fold(e ChangeEntry) {
	prev, seen := cs.entries[e.Path]
	if seen && prev.Kind == ChangeDeleted {
		// the rename still removes its source
		if e.Kind == ChangeRenamed && e.OldPath != "" && e.OldPath != e.Path {
			cs.Fold(ChangeEntry{Kind: ChangeDeleted, Path: e.OldPath, Revision: e.Revision})
		}
		return
	}

	if e.Kind == ChangeRenamed {
		if source, ok := cs.entries[e.OldPath]; ok {
			switch source.Kind {
			case ChangeDeleted:
			case ChangeRenamed:
				// a -> b then b -> c is a -> c
				delete(cs.entries, e.OldPath)
				e.OldPath = source.OldPath
			default:
				delete(cs.entries, e.OldPath)
			}
		}
		if e.OldPath == e.Path {
			e.Kind = ChangeModified
			e.OldPath = ""
		}
	}

	if seen && prev.Kind == ChangeRenamed && (e.Kind != ChangeRenamed || e.OldPath != prev.OldPath) {
		if _, ok := cs.entries[prev.OldPath]; !ok && prev.OldPath != e.Path {
			cs.entries[prev.OldPath] = ChangeEntry{
				Kind:     ChangeDeleted,
				Path:     prev.OldPath,
				Revision: e.Revision,
			}
		}
	}

	cs.entries[e.Path] = e
}

// Get the entry for a path
func (cs *ChangeSet) Get(path string) (ChangeEntry, bool) {
	e, ok := cs.entries[path]
	return e, ok
}

// Len is the number of distinct paths
func (cs *ChangeSet) Len() int {
	return len(cs.entries)
}

// Entries sorted by path
func (cs *ChangeSet) Entries() []ChangeEntry {
	res := make([]ChangeEntry, 0, len(cs.entries))
	for _, e := range cs.entries {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Path < res[j].Path
	})
	return res
}

// Counts tallies entries per change kind
func (cs *ChangeSet) Counts() map[ChangeKind]int {
	counts := make(map[ChangeKind]int, 4)
	for _, e := range cs.entries {
		counts[e.Kind]++
	}
	return counts
}

// Kinds maps each path to its final change kind
func (cs *ChangeSet) Kinds() map[string]ChangeKind {
	res := make(map[string]ChangeKind, len(cs.entries))
	for p, e := range cs.entries {
		res[p] = e.Kind
	}
	return res
}
