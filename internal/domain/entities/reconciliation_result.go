package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// ResultKind enumerates the three outcomes of a reconciliation.
type ResultKind int

const (
	// ResultNoChange means there was nothing to commit: no lock file, or identical content.
	ResultNoChange ResultKind = iota
	// ResultChanged carries new lock file content.
	ResultChanged
	// ResultArtifactError carries a diagnostic for a lock file that could not be updated.
	ResultArtifactError
)

func (k ResultKind) String() string {
	switch k {
	case ResultChanged:
		return "changed"
	case ResultArtifactError:
		return "artifact-error"
	default:
		return "no-change"
	}
}

// ReconciliationResult is produced once per top-level reconciliation call.
type ReconciliationResult struct {
	Kind     ResultKind
	LockFile LockFile // Set for ResultChanged (new content) and ResultArtifactError (path only)
	Message  string   // Diagnostic text for ResultArtifactError
}

// NoChange returns the "no actionable change" result.
func NoChange() ReconciliationResult {
	return ReconciliationResult{Kind: ResultNoChange}
}

// Changed returns a lock file modification result.
func Changed(lockFile LockFile) ReconciliationResult {
	return ReconciliationResult{Kind: ResultChanged, LockFile: lockFile}
}

// ArtifactError returns a terminal failure result for the given lock file.
func ArtifactError(lockPath, message string) ReconciliationResult {
	return ReconciliationResult{
		Kind:     ResultArtifactError,
		LockFile: LockFile{Path: lockPath},
		Message:  message,
	}
}

// FileChange converts a changed result into the commit-assembly format.
// It returns false for any other kind.
func (r ReconciliationResult) FileChange() (FileChange, bool) {
	if r.Kind != ResultChanged {
		return FileChange{}, false
	}
	return FileChange{
		Path:       r.LockFile.Path,
		Content:    string(r.LockFile.Content),
		ChangeType: "edit",
	}, true
}

// FileChange is re-exported from gitforge.
type FileChange = gitforgeEntities.FileChange
