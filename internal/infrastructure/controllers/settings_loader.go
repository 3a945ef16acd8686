package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// loadSettings reads the configuration file given by --config (or found in
// the default locations). When required is false a missing file falls back
// to the default settings. Global flag overrides are applied last.
func loadSettings(required bool) (*entities.Settings, error) {
	cfgPath := viper.GetString("config")
	if cfgPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			if required {
				return nil, err
			}
			logger.Debug("No config file found, using defaults")
			return applySandboxOverride(entities.DefaultSettings(), viper.GetString("sandbox"))
		}
		cfgPath = found
	}

	logger.Infof("Using config file: %s", cfgPath)
	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		return nil, err
	}
	return applySandboxOverride(settings, viper.GetString("sandbox"))
}

// applySandboxOverride replaces the configured sandbox with the --sandbox flag value.
func applySandboxOverride(settings *entities.Settings, sandbox string) (*entities.Settings, error) {
	switch entities.Sandbox(sandbox) {
	case "":
		return settings, nil
	case entities.SandboxNone, entities.SandboxDocker:
		settings.Resolver.Sandbox = entities.Sandbox(sandbox)
		return settings, nil
	default:
		return nil, fmt.Errorf("--sandbox must be %q or %q, got %q", entities.SandboxNone, entities.SandboxDocker, sandbox)
	}
}
