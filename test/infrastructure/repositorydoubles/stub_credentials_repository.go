//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

// StubCredentialsRepository implements repositories.CredentialsRepository.
type StubCredentialsRepository struct {
	Env       map[string]string
	Err       error
	CallCount int
}

var _ repositories.CredentialsRepository = (*StubCredentialsRepository)(nil)

func (s *StubCredentialsRepository) Environment(
	_ context.Context,
	_ entities.CredentialsConfig,
) (map[string]string, error) {
	s.CallCount++
	return s.Env, s.Err
}
