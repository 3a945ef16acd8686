//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

// ExecutorStep scripts one call of StubExecutorRepository.Execute.
type ExecutorStep struct {
	LockContent *string // When set, written to the stub's LockPath before returning
	Err         error
}

// StubExecutorRepository implements repositories.ExecutorRepository by
// replaying scripted steps. The last step repeats once the script runs out.
type StubExecutorRepository struct {
	// --- script ---
	LockPath string
	Steps    []ExecutorStep

	// --- spy ---
	Plans []entities.ExecutionPlan
}

var _ repositories.ExecutorRepository = (*StubExecutorRepository)(nil)

func (s *StubExecutorRepository) Execute(_ context.Context, plan entities.ExecutionPlan) error {
	s.Plans = append(s.Plans, plan)
	if len(s.Steps) == 0 {
		return nil
	}

	index := len(s.Plans) - 1
	if index >= len(s.Steps) {
		index = len(s.Steps) - 1
	}
	step := s.Steps[index]

	if step.LockContent != nil {
		if err := os.WriteFile(s.LockPath, []byte(*step.LockContent), 0o600); err != nil {
			return err
		}
	}
	return step.Err
}

// CallCount returns the number of plans executed.
func (s *StubExecutorRepository) CallCount() int {
	return len(s.Plans)
}

// Content is a helper to take the address of a lock content literal.
func Content(content string) *string {
	return &content
}
