package repositories

import (
	"context"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// ExecutorRepository runs an execution plan synchronously.
// A failing step aborts the remaining ones and is returned as
// *entities.ExecutionFailure; infrastructure failures wrap entities.ErrTemporary.
type ExecutorRepository interface {
	Execute(ctx context.Context, plan entities.ExecutionPlan) error
}
