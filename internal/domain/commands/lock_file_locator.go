package commands

import (
	"os"
	"path/filepath"

	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

const manifestFileMode = 0o644

// locateLockFile looks for the ecosystem's lock file next to the manifest and,
// for workspace layouts, in each ancestor up to the working tree root.
func (it *ReconcileCommand) locateLockFile(
	ecosystem repositories.EcosystemRepository,
	manifestPath string,
) (string, bool) {
	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		return "", false
	}

	dir := filepath.Dir(absManifest)
	stopAt, bounded := it.worktree.Root(dir)

	for {
		candidate := filepath.Join(dir, ecosystem.LockFileName())
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, true
		}

		if !ecosystem.SearchAncestors() || (bounded && dir == stopAt) {
			return "", false
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
