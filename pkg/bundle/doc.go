// Package bundle assembles and opens patch bundles.
//
// A bundle is one output directory per project per run:
//
//	<output root>/<project name>_<label>/
//	  manifest.json   the patch manifest
//	  changes.txt     the change list read by apply.sh
//	  files/          replacement content for added, modified and renamed paths
//	  artifact/       the build artifact, or its extracted tree
//	  apply.sh        the target side apply tool
package bundle
