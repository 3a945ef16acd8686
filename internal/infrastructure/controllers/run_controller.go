package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rios0rios0/lockupdate/internal/domain/commands"
	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// RunController handles the "run" subcommand (batch mode).
type RunController struct {
	command commands.Run
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Run) *RunController {
	return &RunController{command: command}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Reconcile every configured manifest",
		Long: `Reconcile the lock files of every manifest listed under "updates"
in the configuration file, plus every manifest matched by the
"discover" patterns (refreshed in maintenance mode).

A manifest whose lock file cannot be updated is reported as a warning
and does not stop the others.`,
	}
}

// Execute runs the batch reconciliation mode.
func (it *RunController) Execute(_ *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, err := loadSettings(true)
	if err != nil {
		logger.Errorf(
			"failed to load config: %v\nSpecify one with --config or create lockupdate.yaml",
			err,
		)
		return
	}

	logger.Info("Starting lockupdate run...")

	report, runErr := it.command.Execute(ctx, settings, commands.RunOptions{
		DryRun:        viper.GetBool("dry-run"),
		Verbose:       viper.GetBool("verbose"),
		EcosystemName: viper.GetString("ecosystem"),
	})
	if runErr != nil {
		logger.Errorf("Run failed: %v", runErr)
		return
	}

	for _, result := range report.ArtifactErrors {
		logger.Warnf("Lock file %s needs manual attention:\n%s", result.LockFile.Path, result.Message)
	}
}
