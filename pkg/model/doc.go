// Package model describes the base objects manipulated by easypatcher.
//
// The object model for easypatcher is composed of:
//
//	Tasks:
//	  A named group of projects that are patched together. Tasks are persisted
//	  by the task store.
//
//	Projects:
//	  A working copy under version control (git or svn), optionally paired
//	  with a build artifact such as a web archive.
//
//	Revisions:
//	  A commit (git) or revision (svn) listed from the project history.
//
//	Change sets:
//	  The deduplicated set of file changes implied by the revisions an
//	  operator selected for one project.
//
//	Manifests:
//	  The serialized result of one run for one project, shipped with the
//	  patch bundle to the deployment target.
package model
