//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"path/filepath"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

// StubEcosystemRepository implements repositories.EcosystemRepository with
// configurable capabilities. Commands are rendered as "stub update <manifest>"
// and "stub pin <coordinate> <new>".
type StubEcosystemRepository struct {
	// --- identity ---
	EcosystemName string
	ManifestName  string
	LockName      string
	Ancestors     bool
	Datasource    string

	// --- capabilities ---
	NoPrecisePin bool
	Signatures   []entities.FailureSignature

	// --- ExtractLockedVersions ---
	Versions   map[string][]string
	ExtractErr error
}

var _ repositories.EcosystemRepository = (*StubEcosystemRepository)(nil)

func (s *StubEcosystemRepository) Name() string { return s.EcosystemName }

func (s *StubEcosystemRepository) Detect(manifestPath string) bool {
	return filepath.Base(manifestPath) == s.ManifestName
}

func (s *StubEcosystemRepository) LockFileName() string      { return s.LockName }
func (s *StubEcosystemRepository) SearchAncestors() bool     { return s.Ancestors }
func (s *StubEcosystemRepository) PrimaryDatasource() string { return s.Datasource }

func (s *StubEcosystemRepository) FullUpdateCommand(manifestPath string, maintenance bool) entities.Command {
	if maintenance {
		return entities.NewCommand("stub", "refresh", manifestPath)
	}
	return entities.NewCommand("stub", "update", manifestPath)
}

func (s *StubEcosystemRepository) PrecisePinCommand(
	_ string,
	upgrade entities.Upgrade,
) (entities.Command, bool) {
	if s.NoPrecisePin {
		return entities.Command{}, false
	}
	return entities.NewCommand("stub", "pin", upgrade.Coordinate(), upgrade.NewVersion), true
}

func (s *StubEcosystemRepository) ConstrainCommand(command entities.Command, constraint string) entities.Command {
	return entities.NewCommand(append(append([]string(nil), command.Args...), "--tool="+constraint)...)
}

func (s *StubEcosystemRepository) ConflictSignatures() []entities.FailureSignature {
	return s.Signatures
}

func (s *StubEcosystemRepository) ExtractLockedVersions(_ []byte) (map[string][]string, error) {
	return s.Versions, s.ExtractErr
}
