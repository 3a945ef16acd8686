package repositories

import (
	"context"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// CredentialsRepository provides the extra environment needed by resolver
// tools to fetch private dependencies.
type CredentialsRepository interface {
	Environment(ctx context.Context, config entities.CredentialsConfig) (map[string]string, error)
}
