// Package internal holds helpers shared by the easypatcher commands.
package internal

import (
	"os"
	"runtime/pprof"

	"go.uber.org/zap"
)

// StartCPUProfile writes a CPU profile to path until the returned stop function is called
func StartCPUProfile(path string, l *zap.Logger) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err = pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	l.Debug("cpu profiling started", zap.String("path", path))
	return func() {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			l.Warn("cpu profile not written", zap.String("path", path), zap.Error(err))
		}
	}, nil
}
