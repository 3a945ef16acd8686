package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAttemptBudget is the number of filtered retries allowed per reconciliation.
	DefaultAttemptBudget = 10
	// DefaultFatalMarker is the failure text that marks a temporary infrastructure error.
	DefaultFatalMarker = "temporary-error"
	defaultConcurrency = 1
)

// Settings is the top-level configuration for lockupdate.
type Settings struct {
	Resolver    ResolverConfig    `yaml:"resolver"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Discover    DiscoverConfig    `yaml:"discover"`
	Updates     []PlanConfig      `yaml:"updates"`
	Concurrency int               `yaml:"concurrency"`
}

// ResolverConfig controls how the external resolver tools are invoked.
type ResolverConfig struct {
	AttemptBudget   int               `yaml:"attempt_budget"`
	FatalMarker     string            `yaml:"fatal_marker"`
	Sandbox         Sandbox           `yaml:"sandbox"`
	SandboxImages   map[string]string `yaml:"sandbox_images"`   // ecosystem -> image
	ToolConstraints map[string]string `yaml:"tool_constraints"` // ecosystem -> tool version
}

// CredentialsConfig describes the credentials injected into resolver runs.
type CredentialsConfig struct {
	EnvFile string           `yaml:"env_file"` // Optional dotenv file loaded before resolving tokens
	Hosts   []HostCredential `yaml:"hosts"`
}

// HostCredential is a token used for authenticated git fetches against Host.
type HostCredential struct {
	Host     string `yaml:"host"`     // e.g. "github.com"
	Username string `yaml:"username"` // Defaults per provider (x-access-token, oauth2, pat)
	Token    string `yaml:"token"`    // Inline, ${ENV_VAR}, or file path; resolved at use
}

// DiscoverConfig selects manifests refreshed in maintenance mode by the run command.
type DiscoverConfig struct {
	Root      string   `yaml:"root"`
	Patterns  []string `yaml:"patterns"` // doublestar globs relative to Root
	Ecosystem string   `yaml:"ecosystem"`
}

// PlanConfig is a manifest update plan as written in the configuration file.
type PlanConfig struct {
	Path        string    `yaml:"path"`
	Ecosystem   string    `yaml:"ecosystem"`
	Content     string    `yaml:"content"`
	ContentFile string    `yaml:"content_file"`
	Maintenance bool      `yaml:"maintenance"`
	Upgrades    []Upgrade `yaml:"upgrades"`
}

// ToRequest builds the UpdateRequest for this plan. When no new content is
// given the manifest's current content is used.
func (p PlanConfig) ToRequest() (UpdateRequest, error) {
	content := p.Content
	source := p.ContentFile
	if content == "" && source == "" {
		source = p.Path
	}
	if source != "" {
		data, err := os.ReadFile(source)
		if err != nil {
			return UpdateRequest{}, fmt.Errorf("failed to read manifest content %q: %w", source, err)
		}
		content = string(data)
	}

	return UpdateRequest{
		ManifestPath: p.Path,
		NewContent:   content,
		Upgrades:     p.Upgrades,
		Maintenance:  p.Maintenance,
		Ecosystem:    p.Ecosystem,
	}, nil
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// toolchainChannels are accepted as tool constraints besides exact versions.
var toolchainChannels = map[string]bool{"stable": true, "beta": true, "nightly": true}

// DefaultSettings returns the settings used when no configuration file exists.
func DefaultSettings() *Settings {
	settings := &Settings{}
	settings.applyDefaults()
	return settings
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving token file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.applyDefaults()

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".lockupdate.yaml",
		".lockupdate.yml",
		"lockupdate.yaml",
		"lockupdate.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// ToolConstraint returns the configured tool version for an ecosystem.
func (s *Settings) ToolConstraint(ecosystem string) string {
	return s.Resolver.ToolConstraints[ecosystem]
}

// SandboxImage returns the configured sandbox image for an ecosystem.
func (s *Settings) SandboxImage(ecosystem string) string {
	return s.Resolver.SandboxImages[ecosystem]
}

// WithDefaults returns a copy of the settings with every unset value defaulted.
// Commands call it so settings built in code behave like loaded ones.
func (s *Settings) WithDefaults() *Settings {
	if s == nil {
		return DefaultSettings()
	}
	normalized := *s
	normalized.applyDefaults()
	return &normalized
}

func (s *Settings) applyDefaults() {
	if s.Resolver.AttemptBudget == 0 {
		s.Resolver.AttemptBudget = DefaultAttemptBudget
	}
	if s.Resolver.FatalMarker == "" {
		s.Resolver.FatalMarker = DefaultFatalMarker
	}
	if s.Resolver.Sandbox == "" {
		s.Resolver.Sandbox = SandboxNone
	}
	if s.Concurrency <= 0 {
		s.Concurrency = defaultConcurrency
	}
	if s.Discover.Root == "" {
		s.Discover.Root = "."
	}
}

// validate checks for consistent configuration values.
func (s *Settings) validate() error {
	if s.Resolver.AttemptBudget < 0 {
		return fmt.Errorf("resolver.attempt_budget must not be negative, got %d", s.Resolver.AttemptBudget)
	}

	switch s.Resolver.Sandbox {
	case SandboxNone, SandboxDocker:
	default:
		return fmt.Errorf("resolver.sandbox must be %q or %q, got %q", SandboxNone, SandboxDocker, s.Resolver.Sandbox)
	}

	for ecosystem, constraint := range s.Resolver.ToolConstraints {
		if !isValidToolConstraint(constraint) {
			return fmt.Errorf("resolver.tool_constraints.%s: invalid version %q", ecosystem, constraint)
		}
	}

	for i, host := range s.Credentials.Hosts {
		if host.Host == "" {
			return fmt.Errorf("credentials.hosts[%d].host is required", i)
		}
	}

	for i, update := range s.Updates {
		if update.Path == "" {
			return fmt.Errorf("updates[%d].path is required", i)
		}
		if update.Content != "" && update.ContentFile != "" {
			return fmt.Errorf("updates[%d]: content and content_file are mutually exclusive", i)
		}
	}

	return nil
}

// isValidToolConstraint accepts release channels and (partial) semantic versions.
func isValidToolConstraint(constraint string) bool {
	if toolchainChannels[constraint] {
		return true
	}
	return semver.IsValid(NormalizeVersion(constraint))
}

// NormalizeVersion ensures version has a 'v' prefix for semver compatibility.
func NormalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
