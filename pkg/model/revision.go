package model

import "time"

// RevisionRecord is one entry of a project history
type RevisionRecord struct {
	ID      string    `json:"id"`
	Summary string    `json:"summary,omitempty"`
	VCS     VCSKind   `json:"vcs"`
	Author  string    `json:"author,omitempty"`
	Date    time.Time `json:"date,omitempty"`
}

// Short form of the revision identifier, for display
func (r RevisionRecord) Short() string {
	if r.VCS == VCSGit && len(r.ID) > 10 {
		return r.ID[:10]
	}
	if r.VCS == VCSSvn {
		return "r" + r.ID
	}
	return r.ID
}

func (r RevisionRecord) String() string {
	if r.Summary == "" {
		return r.Short()
	}
	return r.Short() + " " + r.Summary
}
