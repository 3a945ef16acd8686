//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

// StubWorktreeRepository implements repositories.WorktreeRepository with a
// fixed root. An empty RootDir means "not inside a repository".
type StubWorktreeRepository struct {
	RootDir string
}

var _ repositories.WorktreeRepository = (*StubWorktreeRepository)(nil)

func (s *StubWorktreeRepository) Root(_ string) (string, bool) {
	return s.RootDir, s.RootDir != ""
}
