package entities

import "bytes"

// LockFile is a lock file path plus its opaque content.
type LockFile struct {
	Path    string
	Content []byte
}

// IsEmpty reports whether the lock file has no content worth reconciling.
func (l LockFile) IsEmpty() bool {
	return len(bytes.TrimSpace(l.Content)) == 0
}

// SameContent reports whether both snapshots hold byte-identical content.
func (l LockFile) SameContent(other LockFile) bool {
	return bytes.Equal(l.Content, other.Content)
}
