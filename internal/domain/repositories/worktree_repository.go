package repositories

// WorktreeRepository answers questions about the working tree holding a manifest.
type WorktreeRepository interface {
	// Root returns the top directory of the working tree containing dir, or
	// false when dir is not inside a repository.
	Root(dir string) (string, bool)
}
