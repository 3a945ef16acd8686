package entities

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Upgrade is one requested dependency change inside a manifest.
type Upgrade struct {
	PackageName   string `yaml:"package"`    // Package coordinate as the resolver knows it (e.g. crate name)
	LockedVersion string `yaml:"locked"`     // Version currently pinned in the lock file, may be empty
	NewVersion    string `yaml:"new"`        // Target version
	Datasource    string `yaml:"datasource"` // Datasource the new version came from (e.g. "crate", "git-tags")
}

// Coordinate returns the "<name>@<locked>" package ID used by precise-pin invocations.
func (u Upgrade) Coordinate() string {
	return fmt.Sprintf("%s@%s", u.PackageName, u.LockedVersion)
}

// String renders the upgrade for logs.
func (u Upgrade) String() string {
	locked := u.LockedVersion
	if locked == "" {
		locked = "?"
	}
	if kind := u.UpdateType(); kind != "" {
		return fmt.Sprintf("%s %s -> %s (%s)", u.PackageName, locked, u.NewVersion, kind)
	}
	return fmt.Sprintf("%s %s -> %s", u.PackageName, locked, u.NewVersion)
}

// UpdateType returns "major", "minor" or "patch" for semantic versions,
// and an empty string when either side is not one.
func (u Upgrade) UpdateType() string {
	current := NormalizeVersion(u.LockedVersion)
	target := NormalizeVersion(u.NewVersion)
	if u.LockedVersion == "" || !semver.IsValid(current) || !semver.IsValid(target) {
		return ""
	}

	switch {
	case semver.Major(current) != semver.Major(target):
		return "major"
	case semver.MajorMinor(current) != semver.MajorMinor(target):
		return "minor"
	default:
		return "patch"
	}
}

// ParseUpgrade parses the CLI form `<package>[@<locked>]=<new>[,<datasource>]`.
func ParseUpgrade(raw string) (Upgrade, error) {
	coordinate, target, ok := strings.Cut(strings.TrimSpace(raw), "=")
	if !ok || coordinate == "" || target == "" {
		return Upgrade{}, fmt.Errorf("invalid upgrade %q: expected <package>[@<locked>]=<new>[,<datasource>]", raw)
	}

	var upgrade Upgrade
	upgrade.PackageName, upgrade.LockedVersion, _ = strings.Cut(coordinate, "@")
	upgrade.NewVersion, upgrade.Datasource, _ = strings.Cut(target, ",")
	if upgrade.PackageName == "" || upgrade.NewVersion == "" {
		return Upgrade{}, fmt.Errorf("invalid upgrade %q: package and new version are required", raw)
	}
	return upgrade, nil
}
