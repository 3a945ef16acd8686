//go:build unit

package terraform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/infrastructure/repositories/terraform"
)

const sampleLock = `# This file is maintained automatically by "terraform init".
# Manual edits may be lost in future updates.

provider "registry.terraform.io/hashicorp/aws" {
  version     = "5.31.0"
  constraints = "~> 5.0"
  hashes = [
    "h1:abc=",
  ]
}

provider "registry.terraform.io/hashicorp/random" {
  version = "3.6.0"
}
`

func TestTerraformEcosystemRepository(t *testing.T) {
	t.Parallel()

	repo := terraform.NewTerraformEcosystemRepository()

	t.Run("should describe the terraform layout", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "terraform", repo.Name())
		assert.Equal(t, ".terraform.lock.hcl", repo.LockFileName())
		assert.Equal(t, "terraform-provider", repo.PrimaryDatasource())
		assert.False(t, repo.SearchAncestors())
		assert.True(t, repo.Detect("infra/main.tf"))
		assert.False(t, repo.Detect("infra/main.tf.json.bak"))
		assert.Empty(t, repo.ConflictSignatures())
	})

	t.Run("should refresh providers with init -upgrade and never pin", func(t *testing.T) {
		t.Parallel()

		// when
		command := repo.FullUpdateCommand("/work/infra/main.tf", false)
		_, ok := repo.PrecisePinCommand("/work/infra/main.tf", entities.Upgrade{
			PackageName: "hashicorp/aws", LockedVersion: "5.30.0", NewVersion: "5.31.0",
		})

		// then
		assert.Equal(t, "terraform -chdir=/work/infra init -backend=false -input=false -upgrade", command.String())
		assert.False(t, ok)
		assert.Equal(t, command, repo.ConstrainCommand(command, "1.6.0"))
	})

	t.Run("should extract provider versions by address and short source", func(t *testing.T) {
		t.Parallel()

		// when
		versions, err := repo.ExtractLockedVersions([]byte(sampleLock))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"5.31.0"}, versions["registry.terraform.io/hashicorp/aws"])
		assert.Equal(t, []string{"5.31.0"}, versions["hashicorp/aws"])
		assert.Equal(t, []string{"3.6.0"}, versions["hashicorp/random"])
	})

	t.Run("should fail for invalid HCL", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := repo.ExtractLockedVersions([]byte("provider \"x\" {\n"))

		// then
		require.Error(t, err)
	})
}
