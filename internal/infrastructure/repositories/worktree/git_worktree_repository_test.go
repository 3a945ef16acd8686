//go:build unit

package worktree_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/lockupdate/internal/infrastructure/repositories/worktree"
)

func TestGitWorktreeRepositoryRoot(t *testing.T) {
	t.Parallel()

	t.Run("should return the worktree root from a nested directory", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		_, err := git.PlainInit(dir, false)
		require.NoError(t, err)
		nested := filepath.Join(dir, "crates", "app")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		// when
		root, ok := worktree.NewGitWorktreeRepository().Root(nested)

		// then
		assert.True(t, ok)
		assert.Equal(t, dir, root)
	})

	t.Run("should report directories outside a repository", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()

		// when
		_, ok := worktree.NewGitWorktreeRepository().Root(dir)

		// then
		assert.False(t, ok)
	})
}
