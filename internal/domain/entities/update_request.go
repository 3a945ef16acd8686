package entities

import (
	"errors"
	"fmt"
)

// ErrConflictingUpgrades is returned when a request names the same package
// twice with different target versions.
var ErrConflictingUpgrades = errors.New("conflicting upgrades for the same package")

// UpdateRequest is a single manifest change whose lock file must be reconciled.
type UpdateRequest struct {
	ManifestPath string    `yaml:"path"`
	NewContent   string    `yaml:"content"`
	Upgrades     []Upgrade `yaml:"upgrades"`
	Maintenance  bool      `yaml:"maintenance"`
	Ecosystem    string    `yaml:"ecosystem"`
}

// WithUpgrades returns a copy of the request targeting only the given upgrades.
func (r UpdateRequest) WithUpgrades(upgrades []Upgrade) UpdateRequest {
	r.Upgrades = upgrades
	return r
}

// NormalizeUpgrades collapses exact duplicates and rejects a package that is
// requested twice with different target versions.
func NormalizeUpgrades(upgrades []Upgrade) ([]Upgrade, error) {
	seen := make(map[string]Upgrade, len(upgrades))
	result := make([]Upgrade, 0, len(upgrades))
	for _, u := range upgrades {
		prev, ok := seen[u.PackageName]
		if !ok {
			seen[u.PackageName] = u
			result = append(result, u)
			continue
		}
		if prev.NewVersion != u.NewVersion {
			return nil, fmt.Errorf(
				"%w: %q requested as %s and %s",
				ErrConflictingUpgrades, u.PackageName, prev.NewVersion, u.NewVersion,
			)
		}
	}
	return result, nil
}
