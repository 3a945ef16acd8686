package credentials

// NewEnvCredentialsRepositoryWithEnv builds the repository over a fake environment.
func NewEnvCredentialsRepositoryWithEnv(getenv func(string) string) *EnvCredentialsRepository {
	return &EnvCredentialsRepository{getenv: getenv}
}
