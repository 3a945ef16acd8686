//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// UpgradeBuilder helps create test upgrades with a fluent interface.
type UpgradeBuilder struct {
	*testkit.BaseBuilder
	packageName   string
	lockedVersion string
	newVersion    string
	datasource    string
}

// NewUpgradeBuilder creates a new upgrade builder with sensible defaults.
func NewUpgradeBuilder() *UpgradeBuilder {
	return &UpgradeBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		packageName:   "foo",
		lockedVersion: "1.0.0",
		newVersion:    "1.1.0",
		datasource:    "crate",
	}
}

// WithPackageName sets the package name.
func (b *UpgradeBuilder) WithPackageName(name string) *UpgradeBuilder {
	b.packageName = name
	return b
}

// WithLockedVersion sets the currently locked version (may be empty).
func (b *UpgradeBuilder) WithLockedVersion(version string) *UpgradeBuilder {
	b.lockedVersion = version
	return b
}

// WithNewVersion sets the target version.
func (b *UpgradeBuilder) WithNewVersion(version string) *UpgradeBuilder {
	b.newVersion = version
	return b
}

// WithDatasource sets the datasource.
func (b *UpgradeBuilder) WithDatasource(datasource string) *UpgradeBuilder {
	b.datasource = datasource
	return b
}

// Build creates the upgrade (satisfies testkit.Builder interface).
func (b *UpgradeBuilder) Build() interface{} {
	return b.BuildUpgrade()
}

// BuildUpgrade creates the upgrade with a concrete return type.
func (b *UpgradeBuilder) BuildUpgrade() entities.Upgrade {
	return entities.Upgrade{
		PackageName:   b.packageName,
		LockedVersion: b.lockedVersion,
		NewVersion:    b.newVersion,
		Datasource:    b.datasource,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *UpgradeBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.packageName = "foo"
	b.lockedVersion = "1.0.0"
	b.newVersion = "1.1.0"
	b.datasource = "crate"
	return b
}

// Clone creates a deep copy of the UpgradeBuilder.
func (b *UpgradeBuilder) Clone() testkit.Builder {
	return &UpgradeBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		packageName:   b.packageName,
		lockedVersion: b.lockedVersion,
		newVersion:    b.newVersion,
		datasource:    b.datasource,
	}
}
