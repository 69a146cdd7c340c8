// Package patch drives a patch run over the projects of a task.
//
// The Planner lists the history of every project, lets a Selector pick
// revisions, folds the selected revisions into one change set per project
// and asks for confirmation. The Builder then stages artifacts and
// assembles one bundle per project, under a label shared by the run.
package patch
