package generator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m2rads/e2e/pkg/types"
)

// Writer persists artifacts under a configured output directory, each at
// a path equal to its filename.
type Writer struct {
	outputDir string
	logger    *slog.Logger
}

// NewWriter creates a Writer rooted at outputDir.
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{outputDir: outputDir, logger: logger}
}

// WriteAll persists every artifact, creating intermediate directories as
// needed. Writing is all-or-nothing per artifact: one failure is reported
// and logged but never blocks the others. Returns the paths written and
// any per-artifact errors.
func (w *Writer) WriteAll(artifacts []types.Artifact) ([]string, []error) {
	var written []string
	var errs []error
	for _, artifact := range artifacts {
		path, err := w.write(artifact)
		if err != nil {
			w.logger.Warn("writing artifact failed", "filename", artifact.Filename, "error", err)
			errs = append(errs, err)
			continue
		}
		written = append(written, path)
	}
	return written, errs
}

func (w *Writer) write(artifact types.Artifact) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(artifact.Filename))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("artifact %q escapes the output directory", artifact.Filename)
	}

	path := filepath.Join(w.outputDir, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", artifact.Filename, err)
	}
	if err := os.WriteFile(path, []byte(artifact.Content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", artifact.Filename, err)
	}
	return path, nil
}
