package cargo

import (
	"path/filepath"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

const (
	ecosystemName   = "cargo"
	manifestName    = "Cargo.toml"
	lockFileName    = "Cargo.lock"
	crateDatasource = "crate"
	cargoBinary     = "cargo"

	// gitFetchWithCLI makes cargo use the git CLI, so credentials injected via
	// GIT_CONFIG_* reach private git dependencies.
	gitFetchWithCLI = "net.git-fetch-with-cli=true"
)

// CargoEcosystemRepository implements repositories.EcosystemRepository for
// Rust crates, driving `cargo update`.
type CargoEcosystemRepository struct {
	extractor *lockVersionExtractor
}

// NewCargoEcosystemRepository creates a new Cargo ecosystem.
func NewCargoEcosystemRepository() repositories.EcosystemRepository {
	return &CargoEcosystemRepository{extractor: newLockVersionExtractor()}
}

func (c *CargoEcosystemRepository) Name() string { return ecosystemName }

// Detect returns true for Cargo.toml manifests.
func (c *CargoEcosystemRepository) Detect(manifestPath string) bool {
	return filepath.Base(manifestPath) == manifestName
}

func (c *CargoEcosystemRepository) LockFileName() string { return lockFileName }

// SearchAncestors is true: workspace members share the Cargo.lock of the workspace root.
func (c *CargoEcosystemRepository) SearchAncestors() bool { return true }

func (c *CargoEcosystemRepository) PrimaryDatasource() string { return crateDatasource }

// FullUpdateCommand returns `cargo update` for maintenance, restricted to the
// workspace members (`--workspace`) otherwise.
func (c *CargoEcosystemRepository) FullUpdateCommand(manifestPath string, maintenance bool) entities.Command {
	args := baseArgs(manifestPath)
	if !maintenance {
		args = append(args, "--workspace")
	}
	return entities.NewCommand(args...)
}

// PrecisePinCommand returns `cargo update --package <name>@<locked> --precise <new>`.
func (c *CargoEcosystemRepository) PrecisePinCommand(
	manifestPath string,
	upgrade entities.Upgrade,
) (entities.Command, bool) {
	if upgrade.LockedVersion == "" || upgrade.NewVersion == "" {
		return entities.Command{}, false
	}
	args := append(baseArgs(manifestPath),
		"--package", upgrade.Coordinate(),
		"--precise", upgrade.NewVersion,
	)
	return entities.NewCommand(args...), true
}

// ConstrainCommand selects the rustup toolchain with `cargo +<toolchain>`.
func (c *CargoEcosystemRepository) ConstrainCommand(command entities.Command, constraint string) entities.Command {
	if command.Name() != cargoBinary || constraint == "" {
		return command
	}
	args := make([]string, 0, len(command.Args)+1)
	args = append(args, cargoBinary, "+"+constraint)
	args = append(args, command.Args[1:]...)
	return entities.NewCommand(args...)
}

func (c *CargoEcosystemRepository) ConflictSignatures() []entities.FailureSignature {
	return []entities.FailureSignature{entities.SignaturePackageIDSpecification}
}

// ExtractLockedVersions decodes the [[package]] tables of a Cargo.lock.
func (c *CargoEcosystemRepository) ExtractLockedVersions(content []byte) (map[string][]string, error) {
	return c.extractor.Extract(content)
}

func baseArgs(manifestPath string) []string {
	return []string{
		cargoBinary, "update",
		"--config", gitFetchWithCLI,
		"--manifest-path", manifestPath,
	}
}
