//go:build unit

package controllers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/infrastructure/controllers"
	commanddoubles "github.com/rios0rios0/lockupdate/test/domain/commanddoubles"
)

func TestReconcileControllerExecute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the parsed request to the reconcile command", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		manifest := filepath.Join(dir, "Cargo.toml")
		contentFile := filepath.Join(dir, "Cargo.toml.new")
		require.NoError(t, os.WriteFile(manifest, []byte("old"), 0o600))
		require.NoError(t, os.WriteFile(contentFile, []byte("new"), 0o600))

		stub := &commanddoubles.StubReconcileCommand{}
		controller := controllers.NewReconcileController(stub)
		cmd := &cobra.Command{Use: controller.GetBind().Use}
		controller.AddFlags(cmd)
		require.NoError(t, cmd.Flags().Set("upgrade", "serde@1.0.100=1.0.200"))
		require.NoError(t, cmd.Flags().Set("upgrade", "tokio=1.36.0,git-tags"))
		require.NoError(t, cmd.Flags().Set("content-file", contentFile))

		// when
		controller.Execute(cmd, []string{manifest})

		// then
		require.Len(t, stub.Executed, 1)
		request := stub.Executed[0]
		assert.Equal(t, manifest, request.ManifestPath)
		assert.Equal(t, "new", request.NewContent)
		assert.False(t, request.Maintenance)
		assert.Equal(t, []entities.Upgrade{
			{PackageName: "serde", LockedVersion: "1.0.100", NewVersion: "1.0.200"},
			{PackageName: "tokio", NewVersion: "1.36.0", Datasource: "git-tags"},
		}, request.Upgrades)
	})

	t.Run("should not reconcile an invalid upgrade", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubReconcileCommand{}
		controller := controllers.NewReconcileController(stub)
		cmd := &cobra.Command{Use: controller.GetBind().Use}
		controller.AddFlags(cmd)
		require.NoError(t, cmd.Flags().Set("upgrade", "serde"))

		// when
		controller.Execute(cmd, []string{filepath.Join(t.TempDir(), "Cargo.toml")})

		// then
		assert.Empty(t, stub.Executed)
	})
}
