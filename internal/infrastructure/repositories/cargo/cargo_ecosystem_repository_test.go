//go:build unit

package cargo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/infrastructure/repositories/cargo"
)

const sampleLock = `# This file is automatically @generated by Cargo.
# It is not intended for manual editing.
version = 3

[[package]]
name = "app"
version = "0.1.0"
dependencies = [
 "serde 1.0.100",
 "syn 1.0.109",
 "syn 2.0.48",
]

[[package]]
name = "serde"
version = "1.0.100"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "aaaa"

[[package]]
name = "syn"
version = "1.0.109"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "syn"
version = "2.0.48"
source = "registry+https://github.com/rust-lang/crates.io-index"
`

func TestCargoEcosystemRepository(t *testing.T) {
	t.Parallel()

	repo := cargo.NewCargoEcosystemRepository()

	t.Run("should describe the cargo layout", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "cargo", repo.Name())
		assert.Equal(t, "Cargo.lock", repo.LockFileName())
		assert.Equal(t, "crate", repo.PrimaryDatasource())
		assert.True(t, repo.SearchAncestors())
		assert.True(t, repo.Detect("/work/crates/app/Cargo.toml"))
		assert.False(t, repo.Detect("/work/Cargo.lock"))
	})

	t.Run("should build the update commands", func(t *testing.T) {
		t.Parallel()

		// when
		maintenance := repo.FullUpdateCommand("/work/Cargo.toml", true)
		workspace := repo.FullUpdateCommand("/work/Cargo.toml", false)
		pin, ok := repo.PrecisePinCommand("/work/Cargo.toml", entities.Upgrade{
			PackageName: "serde", LockedVersion: "1.0.100", NewVersion: "1.0.200",
		})

		// then
		require.True(t, ok)
		assert.Equal(t,
			"cargo update --config net.git-fetch-with-cli=true --manifest-path /work/Cargo.toml",
			maintenance.String())
		assert.Equal(t,
			"cargo update --config net.git-fetch-with-cli=true --manifest-path /work/Cargo.toml --workspace",
			workspace.String())
		assert.Equal(t,
			"cargo update --config net.git-fetch-with-cli=true --manifest-path /work/Cargo.toml "+
				"--package serde@1.0.100 --precise 1.0.200",
			pin.String())
	})

	t.Run("should not pin an upgrade without a locked version", func(t *testing.T) {
		t.Parallel()

		// when
		_, ok := repo.PrecisePinCommand("/work/Cargo.toml", entities.Upgrade{PackageName: "serde", NewVersion: "1.0.200"})

		// then
		assert.False(t, ok)
	})

	t.Run("should select a toolchain for cargo commands only", func(t *testing.T) {
		t.Parallel()

		// given
		command := repo.FullUpdateCommand("/work/Cargo.toml", true)

		// when
		constrained := repo.ConstrainCommand(command, "nightly")
		other := repo.ConstrainCommand(entities.NewCommand("git", "status"), "nightly")

		// then
		assert.Equal(t, []string{"cargo", "+nightly", "update"}, constrained.Args[:3])
		assert.Len(t, command.Args, 6)
		assert.Equal(t, []string{"git", "status"}, other.Args)
	})

	t.Run("should recognise the package ID specification failure", func(t *testing.T) {
		t.Parallel()

		// given
		err := &entities.ExecutionFailure{Stderr: "error: package ID specification `serde@1.0.100` did not match any packages"}

		// when
		class, _ := entities.Classify(err, repo.ConflictSignatures()...)

		// then
		assert.Equal(t, entities.FailureRecoverable, class)
	})
}

func TestCargoExtractLockedVersions(t *testing.T) {
	t.Parallel()

	t.Run("should list every locked version in file order", func(t *testing.T) {
		t.Parallel()

		// given
		repo := cargo.NewCargoEcosystemRepository()

		// when
		versions, err := repo.ExtractLockedVersions([]byte(sampleLock))

		// then
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{
			"app":   {"0.1.0"},
			"serde": {"1.0.100"},
			"syn":   {"1.0.109", "2.0.48"},
		}, versions)
	})

	t.Run("should not let callers mutate cached results", func(t *testing.T) {
		t.Parallel()

		// given
		repo := cargo.NewCargoEcosystemRepository()
		first, err := repo.ExtractLockedVersions([]byte(sampleLock))
		require.NoError(t, err)
		first["syn"][0] = "tampered"
		delete(first, "serde")

		// when
		second, err := repo.ExtractLockedVersions([]byte(sampleLock))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"1.0.109", "2.0.48"}, second["syn"])
		assert.Contains(t, second, "serde")
	})

	t.Run("should fail for content that is not TOML", func(t *testing.T) {
		t.Parallel()

		// given
		repo := cargo.NewCargoEcosystemRepository()

		// when
		_, err := repo.ExtractLockedVersions([]byte("[[package]\nname ="))

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Cargo.lock")
	})
}
