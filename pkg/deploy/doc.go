// Package deploy applies patch bundles to target directories.
//
// It implements the same protocol as the apply.sh script shipped in every
// bundle, for hosts where easypatcher itself is available:
//
//   - targets are registered in targets.txt beside the bundle,
//   - bundled content is verified against the manifest checksums,
//   - every affected path is backed up into a fresh bak_<timestamp>
//     directory before anything is written; a failed backup writes nothing,
//   - deletions are applied first, then writes. Write failures are
//     collected and reported, and do not stop the remaining writes.
package deploy
