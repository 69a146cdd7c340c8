package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/easypatcher/easypatcher/pkg/fingerprint"
)

const (
	// LabelLayout formats run labels and backup directory names, second granularity
	LabelLayout = "20060102_150405"

	// BackupPrefix names backup snapshots on deployment targets
	BackupPrefix = "bak_"
)

// RunLabel is the generation label shared by every output of a run
func RunLabel(t time.Time) string {
	return t.Format(LabelLayout)
}

// GetOutputDirName yields the name of the output directory of a project for a run.
//
// The short digest of the project path keeps projects sharing a base name apart.
func GetOutputDirName(project Project, label string) string {
	return sanitizeName(project.Name()) + "-" + pathDigest(project.Path) + "_" + label
}

func pathDigest(pth string) string {
	clean := filepath.ToSlash(filepath.Clean(pth))
	return fingerprint.New(fingerprint.Size(4)).Bytes([]byte(clean))
}

// GetBackupDirName yields the name of a backup snapshot. Attempts beyond
// the first get a numeric suffix.
func GetBackupDirName(t time.Time, attempt int) string {
	if attempt == 0 {
		return BackupPrefix + RunLabel(t)
	}
	return fmt.Sprintf("%s%s_%d", BackupPrefix, RunLabel(t), attempt)
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, name)
}
