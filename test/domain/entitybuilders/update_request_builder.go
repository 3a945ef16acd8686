//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// UpdateRequestBuilder helps create test update requests with a fluent interface.
type UpdateRequestBuilder struct {
	*testkit.BaseBuilder
	manifestPath string
	newContent   string
	upgrades     []entities.Upgrade
	maintenance  bool
	ecosystem    string
}

// NewUpdateRequestBuilder creates a new request builder with sensible defaults.
func NewUpdateRequestBuilder() *UpdateRequestBuilder {
	return &UpdateRequestBuilder{
		BaseBuilder:  testkit.NewBaseBuilder(),
		manifestPath: "Cargo.toml",
		newContent:   "[package]\nname = \"app\"\n",
	}
}

// WithManifestPath sets the manifest path.
func (b *UpdateRequestBuilder) WithManifestPath(path string) *UpdateRequestBuilder {
	b.manifestPath = path
	return b
}

// WithNewContent sets the manifest content to write.
func (b *UpdateRequestBuilder) WithNewContent(content string) *UpdateRequestBuilder {
	b.newContent = content
	return b
}

// WithUpgrades appends requested upgrades.
func (b *UpdateRequestBuilder) WithUpgrades(upgrades ...entities.Upgrade) *UpdateRequestBuilder {
	b.upgrades = append(b.upgrades, upgrades...)
	return b
}

// WithMaintenance marks the request as a maintenance refresh.
func (b *UpdateRequestBuilder) WithMaintenance(maintenance bool) *UpdateRequestBuilder {
	b.maintenance = maintenance
	return b
}

// WithEcosystem forces the ecosystem instead of detecting it.
func (b *UpdateRequestBuilder) WithEcosystem(ecosystem string) *UpdateRequestBuilder {
	b.ecosystem = ecosystem
	return b
}

// Build creates the request (satisfies testkit.Builder interface).
func (b *UpdateRequestBuilder) Build() interface{} {
	return b.BuildRequest()
}

// BuildRequest creates the request with a concrete return type.
func (b *UpdateRequestBuilder) BuildRequest() entities.UpdateRequest {
	return entities.UpdateRequest{
		ManifestPath: b.manifestPath,
		NewContent:   b.newContent,
		Upgrades:     append([]entities.Upgrade(nil), b.upgrades...),
		Maintenance:  b.maintenance,
		Ecosystem:    b.ecosystem,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *UpdateRequestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.manifestPath = "Cargo.toml"
	b.newContent = "[package]\nname = \"app\"\n"
	b.upgrades = nil
	b.maintenance = false
	b.ecosystem = ""
	return b
}

// Clone creates a deep copy of the UpdateRequestBuilder.
func (b *UpdateRequestBuilder) Clone() testkit.Builder {
	return &UpdateRequestBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		manifestPath: b.manifestPath,
		newContent:   b.newContent,
		upgrades:     append([]entities.Upgrade(nil), b.upgrades...),
		maintenance:  b.maintenance,
		ecosystem:    b.ecosystem,
	}
}
