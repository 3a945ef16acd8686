package terraform

import (
	"path/filepath"
	"strings"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

const (
	ecosystemName      = "terraform"
	lockFileName       = ".terraform.lock.hcl"
	providerDatasource = "terraform-provider"
	terraformBinary    = "terraform"
)

// TerraformEcosystemRepository implements repositories.EcosystemRepository
// for Terraform provider lock files. Terraform cannot pin a single provider,
// so every plan is a single `terraform init -upgrade`.
type TerraformEcosystemRepository struct{}

// NewTerraformEcosystemRepository creates a new Terraform ecosystem.
func NewTerraformEcosystemRepository() repositories.EcosystemRepository {
	return &TerraformEcosystemRepository{}
}

func (t *TerraformEcosystemRepository) Name() string { return ecosystemName }

// Detect returns true for .tf files.
func (t *TerraformEcosystemRepository) Detect(manifestPath string) bool {
	return strings.HasSuffix(manifestPath, ".tf")
}

func (t *TerraformEcosystemRepository) LockFileName() string { return lockFileName }

// SearchAncestors is false: the dependency lock file lives in the root module directory.
func (t *TerraformEcosystemRepository) SearchAncestors() bool { return false }

func (t *TerraformEcosystemRepository) PrimaryDatasource() string { return providerDatasource }

// FullUpdateCommand re-selects every provider within the configured constraints.
func (t *TerraformEcosystemRepository) FullUpdateCommand(manifestPath string, _ bool) entities.Command {
	return entities.NewCommand(
		terraformBinary,
		"-chdir="+filepath.Dir(manifestPath),
		"init", "-backend=false", "-input=false", "-upgrade",
	)
}

func (t *TerraformEcosystemRepository) PrecisePinCommand(
	_ string,
	_ entities.Upgrade,
) (entities.Command, bool) {
	return entities.Command{}, false
}

func (t *TerraformEcosystemRepository) ConstrainCommand(command entities.Command, _ string) entities.Command {
	return command
}

func (t *TerraformEcosystemRepository) ConflictSignatures() []entities.FailureSignature {
	return nil
}

// ExtractLockedVersions reads the provider blocks of a .terraform.lock.hcl.
func (t *TerraformEcosystemRepository) ExtractLockedVersions(content []byte) (map[string][]string, error) {
	return scanLockFile(content)
}
