package cmd

import (
	"os"
)

// DieIfNotDirectory exits the process if the path is not an existing directory.
func DieIfNotDirectory(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		logFatalln(err)
		return false
	}
	if !fileInfo.IsDir() {
		logFatalln("'" + path + "' is not a directory")
		return false
	}
	return true
}
