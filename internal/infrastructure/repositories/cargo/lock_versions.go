package cargo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pelletier/go-toml/v2"
)

const lockCacheSize = 64

type cargoLock struct {
	Version  int            `toml:"version"`
	Packages []cargoPackage `toml:"package"`
}

type cargoPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Source  string `toml:"source"`
}

// lockVersionExtractor parses Cargo.lock content into name -> versions.
// Results are cached by content digest; recovery re-reads the same lock
// content several times within one reconciliation.
type lockVersionExtractor struct {
	cache *lru.Cache[string, map[string][]string]
}

func newLockVersionExtractor() *lockVersionExtractor {
	cache, err := lru.New[string, map[string][]string](lockCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &lockVersionExtractor{cache: cache}
}

// Extract returns, for each package name, the versions it is locked to in
// file order. A crate may appear at several versions in one lock file.
func (e *lockVersionExtractor) Extract(content []byte) (map[string][]string, error) {
	sum := sha256.Sum256(content)
	key := hex.EncodeToString(sum[:])
	if cached, ok := e.cache.Get(key); ok {
		return cloneVersions(cached), nil
	}

	var lock cargoLock
	if err := toml.Unmarshal(content, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse Cargo.lock: %w", err)
	}

	versions := make(map[string][]string)
	for _, pkg := range lock.Packages {
		if pkg.Name == "" || pkg.Version == "" {
			continue
		}
		versions[pkg.Name] = append(versions[pkg.Name], pkg.Version)
	}

	e.cache.Add(key, versions)
	return cloneVersions(versions), nil
}

func cloneVersions(versions map[string][]string) map[string][]string {
	result := make(map[string][]string, len(versions))
	for name, list := range versions {
		result[name] = append([]string(nil), list...)
	}
	return result
}
