package controllers

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rios0rios0/lockupdate/internal/domain/commands"
	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// ReconcileController handles the "reconcile" subcommand (single manifest).
type ReconcileController struct {
	command commands.Reconcile
}

// NewReconcileController creates a new ReconcileController.
func NewReconcileController(command commands.Reconcile) *ReconcileController {
	return &ReconcileController{command: command}
}

// GetBind returns the Cobra command metadata for the reconcile controller.
func (it *ReconcileController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "reconcile <manifest>",
		Short: "Regenerate the lock file of a modified manifest",
		Long: `Write the new manifest content (if given) and run the ecosystem's
resolver so that its lock file matches the manifest again.

Upgrades are given as <package>[@<locked>]=<new>[,<datasource>]; when every
upgrade has a locked version the resolver pins each one precisely, otherwise
the whole workspace is updated. Without upgrades use --maintenance to refresh
every locked dependency.`,
	}
}

// Execute runs the single-manifest reconciliation.
func (it *ReconcileController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	request, err := buildRequest(cmd, args)
	if err != nil {
		logger.Errorf("Invalid reconcile request: %v", err)
		return
	}

	settings, err := loadSettings(false)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	if viper.GetBool("dry-run") {
		preview, previewErr := it.command.Preview(ctx, settings, request)
		if previewErr != nil {
			logger.Errorf("Reconcile failed: %v", previewErr)
			return
		}
		logPreview(request, preview)
		return
	}

	result, err := it.command.Execute(ctx, settings, request)
	if err != nil {
		logger.Errorf("Reconcile failed: %v", err)
		return
	}

	switch result.Kind {
	case entities.ResultChanged:
		logger.Infof("Updated %s", result.LockFile.Path)
	case entities.ResultArtifactError:
		logger.Warnf("Could not update %s:\n%s", result.LockFile.Path, result.Message)
	default:
		logger.Info("No lock file changes needed.")
	}
}

// AddFlags adds the reconcile-specific flags to the given Cobra command.
func (it *ReconcileController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("upgrade", nil,
		"Requested upgrade <package>[@<locked>]=<new>[,<datasource>] (repeatable)")
	cmd.Flags().Bool("maintenance", false, "Refresh every locked dependency")
	cmd.Flags().String("content-file", "", "File holding the new manifest content")
}

func buildRequest(cmd *cobra.Command, args []string) (entities.UpdateRequest, error) {
	if len(args) == 0 {
		return entities.UpdateRequest{}, fmt.Errorf("a manifest path is required")
	}

	rawUpgrades, _ := cmd.Flags().GetStringArray("upgrade")
	maintenance, _ := cmd.Flags().GetBool("maintenance")
	contentFile, _ := cmd.Flags().GetString("content-file")

	upgrades := make([]entities.Upgrade, 0, len(rawUpgrades))
	for _, raw := range rawUpgrades {
		upgrade, err := entities.ParseUpgrade(raw)
		if err != nil {
			return entities.UpdateRequest{}, err
		}
		upgrades = append(upgrades, upgrade)
	}

	source := args[0]
	if contentFile != "" {
		source = contentFile
	}
	content, err := os.ReadFile(source)
	if err != nil {
		return entities.UpdateRequest{}, fmt.Errorf("failed to read manifest content %q: %w", source, err)
	}

	return entities.UpdateRequest{
		ManifestPath: args[0],
		NewContent:   string(content),
		Upgrades:     upgrades,
		Maintenance:  maintenance,
		Ecosystem:    viper.GetString("ecosystem"),
	}, nil
}

func logPreview(request entities.UpdateRequest, preview *commands.Preview) {
	if preview.LockFilePath == "" {
		logger.Infof("[%s] [DRY RUN] %s has no lock file, nothing to do", preview.Ecosystem, request.ManifestPath)
		return
	}
	logger.Infof("[%s] [DRY RUN] Would reconcile %s", preview.Ecosystem, preview.LockFilePath)
	for _, line := range preview.Plan.Strings() {
		logger.Infof("[%s] [DRY RUN]   %s", preview.Ecosystem, line)
	}
}
