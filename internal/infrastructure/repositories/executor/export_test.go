package executor

// BuildDockerArgs exports buildDockerArgs for testing.
var BuildDockerArgs = buildDockerArgs //nolint:gochecknoglobals // test export

// SandboxImage exports sandboxImage for testing.
var SandboxImage = sandboxImage //nolint:gochecknoglobals // test export
