package repositories

import (
	"go.uber.org/dig"

	cargoRepo "github.com/rios0rios0/lockupdate/internal/infrastructure/repositories/cargo"
	credRepo "github.com/rios0rios0/lockupdate/internal/infrastructure/repositories/credentials"
	execRepo "github.com/rios0rios0/lockupdate/internal/infrastructure/repositories/executor"
	tfRepo "github.com/rios0rios0/lockupdate/internal/infrastructure/repositories/terraform"
	wtRepo "github.com/rios0rios0/lockupdate/internal/infrastructure/repositories/worktree"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register ecosystem registry with all ecosystem implementations
	if err := container.Provide(func() *EcosystemRegistry {
		reg := NewEcosystemRegistry()
		reg.Register(cargoRepo.NewCargoEcosystemRepository())
		reg.Register(tfRepo.NewTerraformEcosystemRepository())
		return reg
	}); err != nil {
		return err
	}

	// Register the process, credentials and worktree adapters
	if err := container.Provide(execRepo.NewShellExecutorRepository); err != nil {
		return err
	}
	if err := container.Provide(credRepo.NewEnvCredentialsRepository); err != nil {
		return err
	}
	if err := container.Provide(wtRepo.NewGitWorktreeRepository); err != nil {
		return err
	}

	return nil
}
