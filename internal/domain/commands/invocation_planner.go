package commands

import (
	"context"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

// buildPlan gathers the execution options and plans the resolver invocation.
func (it *ReconcileCommand) buildPlan(
	ctx context.Context,
	settings *entities.Settings,
	ecosystem repositories.EcosystemRepository,
	request entities.UpdateRequest,
) (entities.ExecutionPlan, error) {
	env, err := it.credentials.Environment(ctx, settings.Credentials)
	if err != nil {
		return entities.ExecutionPlan{}, fmt.Errorf("failed to resolve credentials: %w", err)
	}

	manifestPath, err := filepath.Abs(request.ManifestPath)
	if err != nil {
		return entities.ExecutionPlan{}, fmt.Errorf("invalid manifest path: %w", err)
	}
	request.ManifestPath = manifestPath

	workDir := filepath.Dir(manifestPath)
	rootDir := workDir
	if root, ok := it.worktree.Root(workDir); ok {
		rootDir = root
	}

	options := entities.ExecOptions{
		WorkDir:        workDir,
		RootDir:        rootDir,
		ExtraEnv:       env,
		Sandbox:        settings.Resolver.Sandbox,
		SandboxImage:   settings.SandboxImage(ecosystem.Name()),
		ToolConstraint: settings.ToolConstraint(ecosystem.Name()),
	}
	return constrainPlan(ecosystem, planInvocation(ecosystem, request, options)), nil
}

// constrainPlan applies the tool constraint to host commands. Sandboxed runs
// select the tool version through the image instead.
func constrainPlan(
	ecosystem repositories.EcosystemRepository,
	plan entities.ExecutionPlan,
) entities.ExecutionPlan {
	constraint := plan.Options.ToolConstraint
	if constraint == "" || plan.Options.Sandbox == entities.SandboxDocker {
		return plan
	}

	commands := make([]entities.Command, 0, len(plan.Commands))
	for _, command := range plan.Commands {
		commands = append(commands, ecosystem.ConstrainCommand(command, constraint))
	}
	return entities.ExecutionPlan{Commands: commands, Options: plan.Options}
}

// planInvocation picks the resolver strategy for a request:
//   - maintenance: one full refresh;
//   - any upgrade without a locked version or outside the primary datasource:
//     one workspace update, since no precise coordinate exists;
//   - otherwise: one workspace update followed by a precise pin per upgrade,
//     in request order.
func planInvocation(
	ecosystem repositories.EcosystemRepository,
	request entities.UpdateRequest,
	options entities.ExecOptions,
) entities.ExecutionPlan {
	tag := "[" + ecosystem.Name() + "]"
	manifest := request.ManifestPath
	fullUpdate := entities.ExecutionPlan{
		Commands: []entities.Command{ecosystem.FullUpdateCommand(manifest, false)},
		Options:  options,
	}

	if request.Maintenance {
		return entities.ExecutionPlan{
			Commands: []entities.Command{ecosystem.FullUpdateCommand(manifest, true)},
			Options:  options,
		}
	}

	for _, upgrade := range request.Upgrades {
		if upgrade.LockedVersion == "" {
			logger.Warnf("%s Missing locked version for %s, updating the whole workspace", tag, upgrade.PackageName)
			return fullUpdate
		}
		if upgrade.Datasource != ecosystem.PrimaryDatasource() {
			logger.Infof(
				"%s %s comes from %q, updating the whole workspace",
				tag, upgrade.PackageName, upgrade.Datasource,
			)
			return fullUpdate
		}
	}

	commands := make([]entities.Command, 0, len(request.Upgrades)+1)
	commands = append(commands, fullUpdate.Commands...)
	for _, upgrade := range request.Upgrades {
		command, ok := ecosystem.PrecisePinCommand(manifest, upgrade)
		if !ok {
			return fullUpdate
		}
		commands = append(commands, command)
	}

	return entities.ExecutionPlan{Commands: commands, Options: options}
}
