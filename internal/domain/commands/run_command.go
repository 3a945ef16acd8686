package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// Run is the interface for the run command (batch mode).
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings, opts RunOptions) (*RunReport, error)
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	DryRun        bool
	Verbose       bool
	EcosystemName string // If set, only reconcile manifests of this ecosystem (CLI override)
}

// RunReport summarizes a batch run. Changes are ready for commit assembly;
// artifact errors are meant to be surfaced as warnings.
type RunReport struct {
	Changes        []entities.FileChange
	ArtifactErrors []entities.ReconciliationResult
	Unchanged      int
}

// RunCommand reconciles every configured and discovered manifest.
// Manifests sharing a lock file are processed one after another; independent
// groups run concurrently up to settings.Concurrency.
type RunCommand struct {
	reconcile Reconcile
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(reconcile Reconcile) *RunCommand {
	return &RunCommand{reconcile: reconcile}
}

// Execute runs the full reconciliation cycle using the provided configuration.
// It fails only on invalid plans or fatal errors; artifact errors are reported.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	runOpts RunOptions,
) (*RunReport, error) {
	if runOpts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	settings = settings.WithDefaults()

	plans, err := collectPlans(settings)
	if err != nil {
		return nil, err
	}

	groups, err := it.groupByLockFile(ctx, settings, plans, runOpts)
	if err != nil {
		return nil, err
	}

	report := &RunReport{}
	if runOpts.DryRun {
		logger.Infof("[DRY RUN] %d manifests would be reconciled", countRequests(groups))
		return report, nil
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(settings.Concurrency)

	for _, requests := range groups {
		group.Go(func() error {
			for _, request := range requests {
				result, reconcileErr := it.reconcile.Execute(groupCtx, settings, request)
				if reconcileErr != nil {
					return fmt.Errorf("failed to reconcile %s: %w", request.ManifestPath, reconcileErr)
				}

				mu.Lock()
				report.add(request, result)
				mu.Unlock()
			}
			return nil
		})
	}

	if waitErr := group.Wait(); waitErr != nil {
		return report, waitErr
	}

	sort.Slice(report.Changes, func(i, j int) bool {
		return report.Changes[i].Path < report.Changes[j].Path
	})
	logger.Infof(
		"Run complete: %d lock files changed, %d unchanged, %d artifact errors",
		len(report.Changes), report.Unchanged, len(report.ArtifactErrors),
	)
	return report, nil
}

func (r *RunReport) add(request entities.UpdateRequest, result entities.ReconciliationResult) {
	switch result.Kind {
	case entities.ResultChanged:
		change, _ := result.FileChange()
		r.Changes = append(r.Changes, change)
		logger.Infof("Updated %s for %s", result.LockFile.Path, request.ManifestPath)
	case entities.ResultArtifactError:
		r.ArtifactErrors = append(r.ArtifactErrors, result)
		logger.Warnf("Artifact error for %s (%s): %s", request.ManifestPath, result.LockFile.Path, result.Message)
	default:
		r.Unchanged++
	}
}

// groupByLockFile previews each request and buckets them by lock file, in
// the order the lock files are first seen. Requests without a lock file get
// their own bucket.
func (it *RunCommand) groupByLockFile(
	ctx context.Context,
	settings *entities.Settings,
	plans []entities.PlanConfig,
	runOpts RunOptions,
) ([][]entities.UpdateRequest, error) {
	var groups [][]entities.UpdateRequest
	index := make(map[string]int)

	for _, plan := range plans {
		request, err := plan.ToRequest()
		if err != nil {
			return nil, err
		}

		preview, err := it.reconcile.Preview(ctx, settings, request)
		if err != nil {
			return nil, fmt.Errorf("failed to plan %s: %w", request.ManifestPath, err)
		}
		if runOpts.EcosystemName != "" && preview.Ecosystem != runOpts.EcosystemName {
			continue
		}
		if runOpts.DryRun {
			logDryRun(request, preview)
		}

		if preview.LockFilePath == "" {
			groups = append(groups, []entities.UpdateRequest{request})
			continue
		}
		if i, ok := index[preview.LockFilePath]; ok {
			groups[i] = append(groups[i], request)
			continue
		}
		index[preview.LockFilePath] = len(groups)
		groups = append(groups, []entities.UpdateRequest{request})
	}

	return groups, nil
}

// collectPlans merges the explicit updates with the discovered manifests,
// explicit entries winning for the same path.
func collectPlans(settings *entities.Settings) ([]entities.PlanConfig, error) {
	plans := make([]entities.PlanConfig, 0, len(settings.Updates))
	seen := make(map[string]bool)
	for _, update := range settings.Updates {
		plans = append(plans, update)
		seen[filepath.Clean(update.Path)] = true
	}

	for _, pattern := range settings.Discover.Patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(settings.Discover.Root, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid discover pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			if seen[filepath.Clean(match)] {
				continue
			}
			seen[filepath.Clean(match)] = true
			plans = append(plans, entities.PlanConfig{
				Path:        match,
				Ecosystem:   settings.Discover.Ecosystem,
				Maintenance: true,
			})
		}
	}

	return plans, nil
}

func logDryRun(request entities.UpdateRequest, preview *Preview) {
	if preview.LockFilePath == "" {
		logger.Infof("[%s] [DRY RUN] %s has no lock file, nothing to do", preview.Ecosystem, request.ManifestPath)
		return
	}
	logger.Infof("[%s] [DRY RUN] Would reconcile %s", preview.Ecosystem, preview.LockFilePath)
	for _, line := range preview.Plan.Strings() {
		logger.Infof("[%s] [DRY RUN]   %s", preview.Ecosystem, line)
	}
}

func countRequests(groups [][]entities.UpdateRequest) int {
	total := 0
	for _, requests := range groups {
		total += len(requests)
	}
	return total
}
