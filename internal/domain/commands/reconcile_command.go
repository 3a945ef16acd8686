package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/lockupdate/internal/infrastructure/repositories"
)

// Reconcile is the interface for the lock file reconciliation engine.
type Reconcile interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		request entities.UpdateRequest,
	) (entities.ReconciliationResult, error)
	Preview(
		ctx context.Context,
		settings *entities.Settings,
		request entities.UpdateRequest,
	) (*Preview, error)
}

// Preview describes what the first reconciliation attempt would do,
// without touching the working tree.
type Preview struct {
	Ecosystem    string
	LockFilePath string // Empty when no lock file was found
	Plan         entities.ExecutionPlan
}

// ReconcileCommand keeps a lock file consistent with a modified manifest by
// driving the ecosystem's resolver tool. It recovers from stale precise-pin
// coordinates by narrowing the requested upgrades and retrying.
type ReconcileCommand struct {
	ecosystemRegistry *infraRepos.EcosystemRegistry
	executor          repositories.ExecutorRepository
	credentials       repositories.CredentialsRepository
	worktree          repositories.WorktreeRepository
}

// NewReconcileCommand creates a new ReconcileCommand.
func NewReconcileCommand(
	ecosystemRegistry *infraRepos.EcosystemRegistry,
	executor repositories.ExecutorRepository,
	credentials repositories.CredentialsRepository,
	worktree repositories.WorktreeRepository,
) *ReconcileCommand {
	return &ReconcileCommand{
		ecosystemRegistry: ecosystemRegistry,
		executor:          executor,
		credentials:       credentials,
		worktree:          worktree,
	}
}

// Execute reconciles the lock file of request.ManifestPath. Artifact errors
// are returned as results; only manifest write failures, credential failures,
// invalid requests and temporary infrastructure errors are returned as errors.
func (it *ReconcileCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	request entities.UpdateRequest,
) (entities.ReconciliationResult, error) {
	settings = settings.WithDefaults()
	ecosystem, request, err := it.prepare(request)
	if err != nil {
		return entities.NoChange(), err
	}
	tag := "[" + ecosystem.Name() + "]"
	logger.Debugf("%s Reconciling lock file for %s", tag, request.ManifestPath)
	for _, upgrade := range request.Upgrades {
		logger.Debugf("%s Requested %s", tag, upgrade)
	}

	signatures := append(
		[]entities.FailureSignature{entities.NewTemporaryErrorSignature(settings.Resolver.FatalMarker)},
		ecosystem.ConflictSignatures()...,
	)

	var original *entities.LockFile
	budget := settings.Resolver.AttemptBudget

	for {
		lockPath, found := it.locateLockFile(ecosystem, request.ManifestPath)
		if !found {
			logger.Debugf("%s No %s found for %s", tag, ecosystem.LockFileName(), request.ManifestPath)
			return entities.NoChange(), nil
		}

		current, readErr := readLockFile(lockPath)
		if readErr != nil || current.IsEmpty() {
			logger.Debugf("%s No lock file content at %s", tag, lockPath)
			return entities.NoChange(), nil
		}
		if original == nil {
			original = &current
		}

		if writeErr := writeManifest(request.ManifestPath, request.NewContent); writeErr != nil {
			return entities.NoChange(), writeErr
		}

		if !request.Maintenance && len(request.Upgrades) == 0 {
			logger.Infof("%s No upgrades left to lock in %s", tag, lockPath)
			return diffLockFile(*original, current), nil
		}

		plan, planErr := it.buildPlan(ctx, settings, ecosystem, request)
		if planErr != nil {
			return entities.NoChange(), planErr
		}
		for _, line := range plan.Strings() {
			logger.Infof("%s Running: %s", tag, line)
		}

		execErr := it.executor.Execute(ctx, plan)
		if execErr == nil {
			updated, updatedErr := readLockFile(lockPath)
			if updatedErr != nil {
				return entities.ArtifactError(lockPath, updatedErr.Error()), nil
			}
			return diffLockFile(*original, updated), nil
		}

		class, signature := entities.Classify(execErr, signatures...)
		logger.Debugf("%s Resolver failed (%s %s): %v", tag, class, signature, execErr)
		if class == entities.FailureFatal {
			return entities.NoChange(), execErr
		}

		remaining, recovered := recoverUpgrades(ecosystem, request, lockPath, class)
		if !recovered || budget <= 0 {
			logger.Warnf("%s Failed to update %s: %s", tag, lockPath, diagnosticOf(execErr))
			return entities.ArtifactError(lockPath, diagnosticOf(execErr)), nil
		}

		budget--
		logger.Infof(
			"%s Retrying with %d of %d upgrades (%d attempts left)",
			tag, len(remaining), len(request.Upgrades), budget,
		)
		request = request.WithUpgrades(remaining)
	}
}

// Preview resolves the ecosystem, lock file and execution plan of the first
// attempt without writing the manifest or running anything. The plan is empty
// when the request asks for nothing.
func (it *ReconcileCommand) Preview(
	ctx context.Context,
	settings *entities.Settings,
	request entities.UpdateRequest,
) (*Preview, error) {
	settings = settings.WithDefaults()
	ecosystem, request, err := it.prepare(request)
	if err != nil {
		return nil, err
	}

	preview := &Preview{Ecosystem: ecosystem.Name()}
	lockPath, found := it.locateLockFile(ecosystem, request.ManifestPath)
	if !found {
		return preview, nil
	}
	preview.LockFilePath = lockPath
	if !request.Maintenance && len(request.Upgrades) == 0 {
		return preview, nil
	}

	plan, planErr := it.buildPlan(ctx, settings, ecosystem, request)
	if planErr != nil {
		return nil, planErr
	}
	preview.Plan = plan
	return preview, nil
}

// prepare resolves the ecosystem and normalizes the requested upgrades.
func (it *ReconcileCommand) prepare(
	request entities.UpdateRequest,
) (repositories.EcosystemRepository, entities.UpdateRequest, error) {
	ecosystem, err := it.resolveEcosystem(request)
	if err != nil {
		return nil, request, err
	}

	upgrades, err := entities.NormalizeUpgrades(request.Upgrades)
	if err != nil {
		return nil, request, err
	}
	for i := range upgrades {
		if upgrades[i].Datasource == "" {
			upgrades[i].Datasource = ecosystem.PrimaryDatasource()
		}
	}
	return ecosystem, request.WithUpgrades(upgrades), nil
}

func (it *ReconcileCommand) resolveEcosystem(
	request entities.UpdateRequest,
) (repositories.EcosystemRepository, error) {
	if request.Ecosystem != "" {
		ecosystem := it.ecosystemRegistry.Get(request.Ecosystem)
		if ecosystem == nil {
			return nil, fmt.Errorf("unknown ecosystem %q", request.Ecosystem)
		}
		return ecosystem, nil
	}

	ecosystem := it.ecosystemRegistry.Detect(request.ManifestPath)
	if ecosystem == nil {
		return nil, fmt.Errorf("no ecosystem handles manifest %q", request.ManifestPath)
	}
	return ecosystem, nil
}

// recoverUpgrades inspects the lock file after a failed attempt and returns
// the upgrades that still need work. It returns false when the failure is not
// recoverable or the requested set did not shrink.
func recoverUpgrades(
	ecosystem repositories.EcosystemRepository,
	request entities.UpdateRequest,
	lockPath string,
	class entities.FailureClass,
) ([]entities.Upgrade, bool) {
	if class != entities.FailureRecoverable {
		return nil, false
	}

	// earlier steps of the plan may already have rewritten the lock file
	lockFile, err := readLockFile(lockPath)
	if err != nil || lockFile.IsEmpty() {
		return nil, false
	}

	versions, err := ecosystem.ExtractLockedVersions(lockFile.Content)
	if err != nil {
		logger.Warnf("[%s] Failed to extract locked versions from %s: %v", ecosystem.Name(), lockPath, err)
		return nil, false
	}

	remaining := filterSatisfiedUpgrades(request.Upgrades, versions)
	return remaining, len(remaining) < len(request.Upgrades)
}

// filterSatisfiedUpgrades drops the upgrades whose new version is already locked.
func filterSatisfiedUpgrades(upgrades []entities.Upgrade, versions map[string][]string) []entities.Upgrade {
	remaining := make([]entities.Upgrade, 0, len(upgrades))
	for _, upgrade := range upgrades {
		if containsVersion(versions[upgrade.PackageName], upgrade.NewVersion) {
			logger.Debugf("Dropping %s: %s is already locked", upgrade.PackageName, upgrade.NewVersion)
			continue
		}
		remaining = append(remaining, upgrade)
	}
	return remaining
}

func containsVersion(versions []string, version string) bool {
	for _, v := range versions {
		if v == version {
			return true
		}
	}
	return false
}

// diagnosticOf returns the user-facing text of a failed attempt.
func diagnosticOf(err error) string {
	var failure *entities.ExecutionFailure
	if errors.As(err, &failure) {
		return failure.Diagnostic()
	}
	return err.Error()
}

// diffLockFile classifies the lock file content against the snapshot taken
// before the first attempt.
func diffLockFile(before, after entities.LockFile) entities.ReconciliationResult {
	if before.SameContent(after) {
		return entities.NoChange()
	}
	return entities.Changed(after)
}

func readLockFile(path string) (entities.LockFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return entities.LockFile{}, fmt.Errorf("failed to read lock file %q: %w", path, err)
	}
	return entities.LockFile{Path: path, Content: content}, nil
}

// writeManifest overwrites the manifest, keeping its permissions.
func writeManifest(path, content string) error {
	mode := os.FileMode(manifestFileMode)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", path, err)
	}
	return nil
}
