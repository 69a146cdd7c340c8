/*
Package easypatcher builds file-level patches from the history of git and
subversion working copies, and applies them safely on deployment targets.

An operator groups projects into tasks, picks revisions per project, and
gets one bundle per project: the replacement files of the merged change set,
the build artifact, a manifest and a self-contained apply.sh that backs up
every affected path on the targets before writing anything.

The command line lives in cmd/easypatcher. The packages under pkg/ are:

  - model: projects, revisions, change entries, the change set fold and manifests
  - vcs: history, changed files and content of git (exec or go-git) and svn
  - patch: revision selection, planning and bundle builds of a task
  - stage: build artifact staging
  - bundle: bundle layout, assembly and verification
  - deploy: target side apply protocol, and deploy/script for apply.sh
  - taskstore: the task file
  - ui: the interactive operator menu
*/
package easypatcher
