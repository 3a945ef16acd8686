package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
	"github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

const dockerBinary = "docker"

// defaultImages are used for sandboxed runs when no image is configured.
var defaultImages = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"cargo":     "rust",
	"terraform": "hashicorp/terraform",
}

// ShellExecutorRepository implements repositories.ExecutorRepository by
// running each command as a child process (no shell), optionally inside a
// throwaway docker container with the working tree mounted.
type ShellExecutorRepository struct {
	findBinary func(name string) (string, error)
}

// NewShellExecutorRepository creates a new executor.
func NewShellExecutorRepository() repositories.ExecutorRepository {
	return &ShellExecutorRepository{findBinary: findBinary}
}

// Execute runs the plan's commands in order and stops at the first failure.
func (e *ShellExecutorRepository) Execute(ctx context.Context, plan entities.ExecutionPlan) error {
	for _, command := range plan.Commands {
		if err := e.run(ctx, command, plan.Options); err != nil {
			return err
		}
	}
	return nil
}

func (e *ShellExecutorRepository) run(
	ctx context.Context,
	command entities.Command,
	opts entities.ExecOptions,
) error {
	if len(command.Args) == 0 {
		return &entities.ExecutionFailure{Message: "empty command"}
	}

	args := command.Args
	if opts.Sandbox == entities.SandboxDocker {
		args = buildDockerArgs(command, opts)
	}

	binary, err := e.findBinary(args[0])
	if err != nil {
		return &entities.ExecutionFailure{Command: command.String(), Message: err.Error()}
	}

	//nolint:gosec // arguments come from the invocation planner, not from user input
	cmd := exec.CommandContext(ctx, binary, args[1:]...)
	cmd.Dir = opts.WorkDir
	cmd.Env = append(os.Environ(), opts.EnvList()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	logger.Debugf("Output of %q:\n%s%s", command.String(), stdout.String(), stderr.String())
	if runErr == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", entities.ErrTemporary, ctxErr)
	}

	failure := &entities.ExecutionFailure{
		Command: command.String(),
		Stderr:  stderr.String(),
		Message: runErr.Error(),
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		failure.ExitCode = exitErr.ExitCode()
	}
	return failure
}

// buildDockerArgs wraps a command in `docker run`, mounting the working tree
// at the same path and forwarding the extra environment by name.
func buildDockerArgs(command entities.Command, opts entities.ExecOptions) []string {
	root := opts.RootDir
	if root == "" {
		root = opts.WorkDir
	}

	args := []string{
		dockerBinary, "run", "--rm",
		"-v", root + ":" + root,
		"-w", opts.WorkDir,
	}
	for _, pair := range opts.EnvList() {
		name, _, _ := strings.Cut(pair, "=")
		args = append(args, "-e", name)
	}
	args = append(args,
		"--entrypoint", command.Name(),
		sandboxImage(command.Name(), opts),
	)
	return append(args, command.Args[1:]...)
}

// sandboxImage returns the configured image, tagged with the tool constraint
// when the image carries no tag of its own.
func sandboxImage(binary string, opts entities.ExecOptions) string {
	image := opts.SandboxImage
	if image == "" {
		image = defaultImages[binary]
	}
	if image == "" {
		image = binary
	}

	if opts.ToolConstraint != "" && !hasTag(image) {
		return image + ":" + opts.ToolConstraint
	}
	return image
}

func hasTag(image string) bool {
	lastSlash := strings.LastIndex(image, "/")
	return strings.Contains(image[lastSlash+1:], ":") || strings.Contains(image, "@")
}

// commonLocations lists install paths checked when a binary is not in PATH.
func commonLocations(name string) []string {
	paths := []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
	}

	home, _ := os.UserHomeDir()
	switch name {
	case "cargo":
		paths = append(paths, "/usr/local/cargo/bin/cargo")
		if home != "" {
			paths = append(paths, filepath.Join(home, ".cargo", "bin", "cargo"))
		}
	case "terraform":
		if home != "" {
			paths = append(paths, filepath.Join(home, ".tfenv", "bin", "terraform"))
		}
	}
	return paths
}

// findBinary locates name on PATH, then in common install locations.
func findBinary(name string) (string, error) {
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	for _, p := range commonLocations(name) {
		if _, statErr := os.Stat(p); statErr == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s binary not found in PATH or common locations", name)
}
