package browser

import (
	"os"
	"path/filepath"
	"strings"
)

// shortenPath replaces the home directory prefix with a tilde (~) and makes
// paths under the working directory relative.
func shortenPath(path string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Fallback to original path on error
	}
	if strings.HasPrefix(path, home) {
		return filepath.Join("~", strings.TrimPrefix(path, home))
	}
	return path
}
