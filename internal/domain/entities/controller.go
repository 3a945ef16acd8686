package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
	"github.com/spf13/cobra"
)

// ControllerBind is re-exported from gitforge.
type ControllerBind = gitforgeEntities.ControllerBind

// Controller is a CLI entry point exposed as a Cobra subcommand.
type Controller interface {
	GetBind() ControllerBind
	Execute(command *cobra.Command, arguments []string)
}
