package repositories

import "github.com/rios0rios0/lockupdate/internal/domain/entities"

// EcosystemRepository abstracts a package ecosystem whose lock file is kept in
// sync by an external resolver tool (Cargo, Terraform, etc.).
// The engine never parses lock files itself; everything ecosystem-specific
// goes through this port.
type EcosystemRepository interface {
	// Name returns the ecosystem identifier (e.g. "cargo", "terraform").
	Name() string

	// Detect returns true if the manifest file belongs to this ecosystem.
	Detect(manifestPath string) bool

	// LockFileName returns the conventional lock file name (e.g. "Cargo.lock").
	LockFileName() string

	// SearchAncestors reports whether the lock file may live in an ancestor
	// directory of the manifest (workspace layouts).
	SearchAncestors() bool

	// PrimaryDatasource is the registry datasource precise pins can target.
	PrimaryDatasource() string

	// FullUpdateCommand returns the command refreshing the whole workspace.
	// When maintenance is true the refresh re-resolves every dependency.
	FullUpdateCommand(manifestPath string, maintenance bool) entities.Command

	// PrecisePinCommand returns the command pinning one package to its new version.
	// It returns false when the ecosystem cannot pin a single package.
	PrecisePinCommand(manifestPath string, upgrade entities.Upgrade) (entities.Command, bool)

	// ConstrainCommand pins the resolver tool version of a command run on the
	// host (e.g. a rustup toolchain selector). Ecosystems without such a
	// mechanism return the command unchanged.
	ConstrainCommand(command entities.Command, constraint string) entities.Command

	// ConflictSignatures returns the failure signatures eligible for filtered retry.
	ConflictSignatures() []entities.FailureSignature

	// ExtractLockedVersions maps each package in the lock content to the
	// versions it is locked to, in file order.
	ExtractLockedVersions(content []byte) (map[string][]string, error)
}
