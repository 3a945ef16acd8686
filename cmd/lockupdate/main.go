package main

import (
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/rios0rios0/lockupdate/internal"
	"github.com/rios0rios0/lockupdate/internal/infrastructure/controllers"
)

const envPrefix = "LOCKUPDATE"

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "lockupdate",
		Short: "Lock file reconciliation engine",
		Long: `Regenerates dependency lock files after a manifest was modified, so that
the lock file agrees with the manifest again.

When the resolver rejects a requested package coordinate because the lock
file already moved past it, the satisfied upgrades are dropped and the
resolver is retried with the rest.

Usage modes:
  lockupdate reconcile crates/app/Cargo.toml --upgrade serde@1.0.1=1.0.2
  lockupdate run            Batch mode using a config file`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if viper.GetBool("verbose") {
				logger.SetLevel(logger.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().Bool("dry-run", false,
		"Show the resolver invocations without running them")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")
	cmd.PersistentFlags().String("sandbox", "",
		"Run resolvers on the host (none) or inside a container (docker)")
	cmd.PersistentFlags().StringP("ecosystem", "e", "",
		"Restrict to one ecosystem (cargo, terraform)")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		logger.Fatalf("Error binding flags: %s", err)
	}

	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Run: func(command *cobra.Command, arguments []string) {
				ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if rc, ok := ctrl.(*controllers.ReconcileController); ok {
			rc.AddFlags(subCmd)
			subCmd.Args = cobra.ExactArgs(1)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   term.IsTerminal(int(os.Stdout.Fd())),
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	cobraRoot := buildRootCommand()

	// Add all subcommands
	appContext := injectAppContext()
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'lockupdate': %s", err)
	}
}
