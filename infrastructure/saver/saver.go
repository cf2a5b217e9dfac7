// Package saver materializes a completed archive buffer on the host
// filesystem. Saving is best-effort: the pipeline cannot observe whether the
// host ultimately keeps the file, so failures are logged, not returned.
package saver

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
)

// FileSaver writes archives into a fixed output directory. The buffer lands in
// a transient dot-file first and is renamed into place, so a partially written
// archive never appears under its final name.
type FileSaver struct {
	outputDir string
}

// NewFileSaver creates a saver for the given directory. An empty directory
// means the current working directory.
func NewFileSaver(outputDir string) *FileSaver {
	if outputDir == "" {
		outputDir = "."
	}
	return &FileSaver{outputDir: outputDir}
}

// Save persists the buffer under the suggested filename. The transient file is
// always released, whether or not the rename succeeds.
func (s *FileSaver) Save(data []byte, filename string) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		logger.Warnf("Failed to create output directory %q: %v", s.outputDir, err)
		return
	}

	transient := filepath.Join(s.outputDir, "."+uuid.NewString()+".part")
	if err := os.WriteFile(transient, data, 0o644); err != nil {
		logger.Warnf("Failed to write archive %q: %v", filename, err)
		return
	}
	defer os.Remove(transient) //nolint:errcheck // gone already after a successful rename

	target := filepath.Join(s.outputDir, filename)
	if err := os.Rename(transient, target); err != nil {
		logger.Warnf("Failed to move archive into place at %q: %v", target, err)
		return
	}

	logger.Infof("Saved %s (%d bytes)", target, len(data))
}
