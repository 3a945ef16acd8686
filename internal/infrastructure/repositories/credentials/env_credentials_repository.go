package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

const (
	hostGitHub      = "github.com"
	hostGitLab      = "gitlab.com"
	hostAzureDevOps = "dev.azure.com"

	gitConfigCount = "GIT_CONFIG_COUNT"
)

// knownHost describes the token conventions of a hosted git provider.
type knownHost struct {
	host     string
	username string
	envVars  []string
	sshURLs  []string
}

//nolint:gochecknoglobals // static provider table
var knownHosts = []knownHost{
	{host: hostGitHub, username: "x-access-token", envVars: []string{"GITHUB_TOKEN", "GH_TOKEN"}, sshURLs: []string{"git@github.com:"}},
	{host: hostGitLab, username: "oauth2", envVars: []string{"GITLAB_TOKEN", "GL_TOKEN"}, sshURLs: []string{"git@gitlab.com:"}},
	{
		host:     hostAzureDevOps,
		username: "pat",
		envVars:  []string{"AZURE_DEVOPS_EXT_PAT", "SYSTEM_ACCESSTOKEN"},
		sshURLs:  []string{"git@ssh.dev.azure.com:v3/"},
	},
}

// EnvCredentialsRepository implements repositories.CredentialsRepository.
// It turns host tokens into git `insteadOf` rules passed through the
// GIT_CONFIG_COUNT / GIT_CONFIG_KEY_n / GIT_CONFIG_VALUE_n variables, so no
// global git configuration is modified.
type EnvCredentialsRepository struct {
	getenv func(string) string
}

// NewEnvCredentialsRepository creates a new credentials provider.
func NewEnvCredentialsRepository() repositories.CredentialsRepository {
	return &EnvCredentialsRepository{getenv: os.Getenv}
}

// Environment loads the optional dotenv file, resolves every host token and
// returns the git configuration environment.
func (r *EnvCredentialsRepository) Environment(
	_ context.Context,
	config entities.CredentialsConfig,
) (map[string]string, error) {
	if config.EnvFile != "" {
		if err := godotenv.Load(config.EnvFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to load env file %q: %w", config.EnvFile, err)
			}
			logger.Warnf("Env file %q does not exist, skipping", config.EnvFile)
		}
	}

	env := make(map[string]string)
	index := r.existingGitConfigCount()
	for _, host := range r.resolveHosts(config.Hosts) {
		for _, rule := range insteadOfRules(host) {
			env["GIT_CONFIG_KEY_"+strconv.Itoa(index)] = rule.key
			env["GIT_CONFIG_VALUE_"+strconv.Itoa(index)] = rule.value
			index++
		}
	}
	if len(env) > 0 {
		env[gitConfigCount] = strconv.Itoa(index)
	}
	return env, nil
}

// resolveHosts returns the configured hosts with their tokens resolved, plus
// any known provider whose token is found in the environment.
func (r *EnvCredentialsRepository) resolveHosts(configured []entities.HostCredential) []entities.HostCredential {
	seen := make(map[string]bool)
	result := make([]entities.HostCredential, 0, len(configured)+len(knownHosts))

	for _, host := range configured {
		host.Token = entities.ResolveToken(host.Token)
		if host.Token == "" {
			logger.Warnf("No token resolved for %s, skipping", host.Host)
			continue
		}
		if host.Username == "" {
			host.Username = defaultUsername(host.Host)
		}
		seen[host.Host] = true
		result = append(result, host)
	}

	for _, known := range knownHosts {
		if seen[known.host] {
			continue
		}
		if token := r.tokenFromEnv(known.envVars); token != "" {
			result = append(result, entities.HostCredential{
				Host:     known.host,
				Username: known.username,
				Token:    token,
			})
		}
	}
	return result
}

func (r *EnvCredentialsRepository) tokenFromEnv(names []string) string {
	for _, name := range names {
		if token := r.getenv(name); token != "" {
			return token
		}
	}
	return ""
}

// existingGitConfigCount keeps rules already present in the process environment.
func (r *EnvCredentialsRepository) existingGitConfigCount() int {
	count, err := strconv.Atoi(r.getenv(gitConfigCount))
	if err != nil || count < 0 {
		return 0
	}
	return count
}

type gitConfigRule struct {
	key   string
	value string
}

// insteadOfRules rewrites HTTPS and SSH remotes of the host to an
// authenticated HTTPS URL.
func insteadOfRules(host entities.HostCredential) []gitConfigRule {
	authenticated := (&url.URL{
		Scheme: "https",
		User:   url.UserPassword(host.Username, host.Token),
		Host:   host.Host,
		Path:   "/",
	}).String()
	key := "url." + authenticated + ".insteadOf"

	rules := []gitConfigRule{{key: key, value: "https://" + host.Host + "/"}}
	for _, known := range knownHosts {
		if known.host != host.Host {
			continue
		}
		for _, sshURL := range known.sshURLs {
			rules = append(rules, gitConfigRule{key: key, value: sshURL})
		}
	}
	return rules
}

func defaultUsername(host string) string {
	for _, known := range knownHosts {
		if known.host == host {
			return known.username
		}
	}
	return "x-access-token"
}
