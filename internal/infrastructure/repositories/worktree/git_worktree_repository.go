package worktree

import (
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

// GitWorktreeRepository implements repositories.WorktreeRepository with go-git.
type GitWorktreeRepository struct{}

// NewGitWorktreeRepository creates a new worktree repository.
func NewGitWorktreeRepository() repositories.WorktreeRepository {
	return &GitWorktreeRepository{}
}

// Root walks up from dir to the enclosing git repository and returns its
// worktree directory. Bare repositories and plain directories return false.
func (g *GitWorktreeRepository) Root(dir string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", false
	}

	root, err := filepath.Abs(worktree.Filesystem.Root())
	if err != nil {
		return "", false
	}
	return root, true
}
