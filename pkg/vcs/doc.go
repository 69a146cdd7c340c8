// Package vcs queries the history of version controlled projects.
//
// A Provider normalizes the history of one VCS (git or svn) into
// revision records, lists the files touched by a revision and reads
// the content of a file as of a revision.
//
// Git is supported through the git binary or through go-git. Svn is
// supported through the svn binary.
package vcs
