package cmdutil

import (
	"fmt"
	"path/filepath"

	"github.com/GigaGaiaWorld/codex/internal/config"
	"github.com/GigaGaiaWorld/codex/internal/fsutil"
)

// ResolvePath expands "~" and returns an absolute, cleaned path.
// Empty input and "-" (standard input or output) are returned unchanged.
func ResolvePath(path string) (string, error) {
	if fsutil.IsStdio(path) {
		return path, nil
	}
	expanded := config.ExpandPath(path)

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s; %w", path, err)
	}

	return filepath.Clean(absPath), nil
}
