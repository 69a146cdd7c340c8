package model

import "time"

// ManifestVersion is the current layout version of patch manifests
const ManifestVersion = 1

// ArtifactInfo records what happened to the build artifact of a project
type ArtifactInfo struct {
	Source string `json:"source,omitempty"`
	Staged bool   `json:"staged,omitempty"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ManifestChange is a change entry, with the fingerprint of the bundled replacement
type ManifestChange struct {
	ChangeEntry
	Checksum string `json:"checksum,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// PatchManifest is the record of one run for one project
type PatchManifest struct {
	Version     int              `json:"version"`
	RunID       string           `json:"runId"`
	Label       string           `json:"label"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Project     Project          `json:"project"`
	Revisions   []RevisionRecord `json:"revisions"`
	Changes     []ManifestChange `json:"changes"`
	Artifact    ArtifactInfo     `json:"artifact,omitempty"`
}

// NewPatchManifest records selected revisions, in fold order, and their merged changes
func NewPatchManifest(project Project, revisions []RevisionRecord, changes *ChangeSet) *PatchManifest {
	entries := changes.Entries()
	m := &PatchManifest{
		Version:   ManifestVersion,
		Project:   project,
		Revisions: append([]RevisionRecord(nil), revisions...),
		Changes:   make([]ManifestChange, len(entries)),
	}
	for i, e := range entries {
		m.Changes[i] = ManifestChange{ChangeEntry: e}
	}
	return m
}

// Entries of the manifest, without fingerprints
func (m *PatchManifest) Entries() []ChangeEntry {
	res := make([]ChangeEntry, len(m.Changes))
	for i, c := range m.Changes {
		res[i] = c.ChangeEntry
	}
	return res
}
