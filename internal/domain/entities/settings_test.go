//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lockupdate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings(t *testing.T) {
	t.Parallel()

	t.Run("should parse a full configuration", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
resolver:
  attempt_budget: 3
  sandbox: docker
  sandbox_images:
    cargo: rust:slim
  tool_constraints:
    cargo: "1.75.0"
credentials:
  env_file: .env
  hosts:
    - host: git.example.com
      token: ${EXAMPLE_TOKEN}
discover:
  root: services
  patterns: ["**/Cargo.toml"]
updates:
  - path: Cargo.toml
    upgrades:
      - package: serde
        locked: 1.0.100
        new: 1.0.200
concurrency: 4
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, 3, settings.Resolver.AttemptBudget)
		assert.Equal(t, entities.DefaultFatalMarker, settings.Resolver.FatalMarker)
		assert.Equal(t, entities.SandboxDocker, settings.Resolver.Sandbox)
		assert.Equal(t, "rust:slim", settings.SandboxImage("cargo"))
		assert.Equal(t, "1.75.0", settings.ToolConstraint("cargo"))
		assert.Empty(t, settings.ToolConstraint("terraform"))
		assert.Equal(t, "${EXAMPLE_TOKEN}", settings.Credentials.Hosts[0].Token)
		assert.Equal(t, []string{"**/Cargo.toml"}, settings.Discover.Patterns)
		assert.Equal(t, 4, settings.Concurrency)
		require.Len(t, settings.Updates, 1)
		assert.Equal(t, entities.Upgrade{
			PackageName:   "serde",
			LockedVersion: "1.0.100",
			NewVersion:    "1.0.200",
		}, settings.Updates[0].Upgrades[0])
	})

	t.Run("should apply defaults to an empty configuration", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "{}\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultSettings(), settings)
		assert.Equal(t, entities.DefaultAttemptBudget, settings.Resolver.AttemptBudget)
		assert.Equal(t, entities.SandboxNone, settings.Resolver.Sandbox)
		assert.Equal(t, 1, settings.Concurrency)
		assert.Equal(t, ".", settings.Discover.Root)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		t.Parallel()

		cases := map[string]string{
			"attempt_budget":   "resolver:\n  attempt_budget: -1\n",
			"sandbox":          "resolver:\n  sandbox: vm\n",
			"tool_constraints": "resolver:\n  tool_constraints:\n    cargo: latest\n",
			"host":             "credentials:\n  hosts:\n    - token: abc\n",
			"path":             "updates:\n  - maintenance: true\n",
			"content":          "updates:\n  - path: Cargo.toml\n    content: x\n    content_file: y\n",
		}
		for field, content := range cases {
			// when
			_, err := entities.NewSettings(writeConfig(t, content))

			// then
			require.Error(t, err, field)
			assert.Contains(t, err.Error(), field)
		}
	})

	t.Run("should accept toolchain channels and partial versions", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "resolver:\n  tool_constraints:\n    cargo: nightly\n    terraform: \"1.6\"\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "nightly", settings.ToolConstraint("cargo"))
	})

	t.Run("should fail for malformed yaml", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "resolver: [\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.NewSettings(filepath.Join(t.TempDir(), "absent.yaml"))

		// then
		require.Error(t, err)
	})
}

func TestSettingsWithDefaults(t *testing.T) {
	t.Parallel()

	t.Run("should default a zero-value settings copy", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{}

		// when
		normalized := settings.WithDefaults()

		// then
		assert.Equal(t, entities.DefaultAttemptBudget, normalized.Resolver.AttemptBudget)
		assert.Equal(t, entities.DefaultFatalMarker, normalized.Resolver.FatalMarker)
		assert.Equal(t, entities.SandboxNone, normalized.Resolver.Sandbox)
		assert.Equal(t, 1, normalized.Concurrency)
		assert.Equal(t, ".", normalized.Discover.Root)
		assert.Zero(t, settings.Concurrency)
		assert.Empty(t, settings.Resolver.FatalMarker)
	})

	t.Run("should keep configured values", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{Concurrency: 4}
		settings.Resolver.AttemptBudget = 3
		settings.Resolver.Sandbox = entities.SandboxDocker

		// when
		normalized := settings.WithDefaults()

		// then
		assert.Equal(t, 4, normalized.Concurrency)
		assert.Equal(t, 3, normalized.Resolver.AttemptBudget)
		assert.Equal(t, entities.SandboxDocker, normalized.Resolver.Sandbox)
	})

	t.Run("should return defaults for nil settings", func(t *testing.T) {
		t.Parallel()

		// given
		var settings *entities.Settings

		// when
		normalized := settings.WithDefaults()

		// then
		assert.Equal(t, entities.DefaultSettings(), normalized)
	})
}

func TestPlanConfigToRequest(t *testing.T) {
	t.Parallel()

	t.Run("should use inline content when given", func(t *testing.T) {
		t.Parallel()

		// given
		plan := entities.PlanConfig{Path: "Cargo.toml", Content: "[package]\n", Ecosystem: "cargo"}

		// when
		request, err := plan.ToRequest()

		// then
		require.NoError(t, err)
		assert.Equal(t, "[package]\n", request.NewContent)
		assert.Equal(t, "cargo", request.Ecosystem)
	})

	t.Run("should read the content file", func(t *testing.T) {
		t.Parallel()

		// given
		contentFile := filepath.Join(t.TempDir(), "new.toml")
		require.NoError(t, os.WriteFile(contentFile, []byte("new"), 0o600))
		plan := entities.PlanConfig{Path: "Cargo.toml", ContentFile: contentFile}

		// when
		request, err := plan.ToRequest()

		// then
		require.NoError(t, err)
		assert.Equal(t, "new", request.NewContent)
	})

	t.Run("should keep the current manifest content when none is given", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := filepath.Join(t.TempDir(), "Cargo.toml")
		require.NoError(t, os.WriteFile(manifest, []byte("current"), 0o600))
		plan := entities.PlanConfig{Path: manifest, Maintenance: true}

		// when
		request, err := plan.ToRequest()

		// then
		require.NoError(t, err)
		assert.Equal(t, "current", request.NewContent)
		assert.True(t, request.Maintenance)
	})
}

func TestResolveToken(t *testing.T) { //nolint:paralleltest // uses t.Setenv
	t.Run("should expand environment variables", func(t *testing.T) {
		// given
		t.Setenv("LOCKUPDATE_TEST_TOKEN", "secret")

		// when
		token := entities.ResolveToken("${LOCKUPDATE_TEST_TOKEN}")

		// then
		assert.Equal(t, "secret", token)
	})

	t.Run("should read the token from a file path", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("  from-file\n"), 0o600))

		// when
		token := entities.ResolveToken(path)

		// then
		assert.Equal(t, "from-file", token)
	})

	t.Run("should return an inline token unchanged", func(t *testing.T) {
		// when
		token := entities.ResolveToken("inline-token")

		// then
		assert.Equal(t, "inline-token", token)
	})
}

func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	t.Run("should add the v prefix once", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "v1.2.3", entities.NormalizeVersion("1.2.3"))
		assert.Equal(t, "v1.2.3", entities.NormalizeVersion(" v1.2.3 "))
	})
}
