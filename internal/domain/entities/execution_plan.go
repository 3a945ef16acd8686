package entities

import (
	"sort"
	"strings"
)

// Sandbox selects where the resolver tool runs.
type Sandbox string

const (
	SandboxNone   Sandbox = "none"
	SandboxDocker Sandbox = "docker"
)

// Command is one external invocation, stored as argv (no shell expansion).
type Command struct {
	Args []string
}

// NewCommand builds a command from its argv.
func NewCommand(args ...string) Command {
	return Command{Args: args}
}

// Name returns the binary name of the command.
func (c Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// String renders the command the way a shell user would type it.
func (c Command) String() string {
	quoted := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		quoted = append(quoted, shellQuote(arg))
	}
	return strings.Join(quoted, " ")
}

// ExecOptions are the execution settings shared by every command of a plan.
type ExecOptions struct {
	WorkDir        string            // Directory the commands run in
	RootDir        string            // Working tree root, mounted when sandboxed
	ExtraEnv       map[string]string // Added on top of the process environment
	Sandbox        Sandbox
	SandboxImage   string // Image used when Sandbox is docker
	ToolConstraint string // Resolver tool version (e.g. a Rust toolchain)
}

// EnvList returns ExtraEnv as sorted KEY=VALUE pairs.
func (o ExecOptions) EnvList() []string {
	keys := make([]string, 0, len(o.ExtraEnv))
	for k := range o.ExtraEnv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+o.ExtraEnv[k])
	}
	return env
}

// ExecutionPlan is the ordered list of resolver invocations for one attempt.
type ExecutionPlan struct {
	Commands []Command
	Options  ExecOptions
}

// Strings returns every command rendered with Command.String.
func (p ExecutionPlan) Strings() []string {
	result := make([]string, 0, len(p.Commands))
	for _, c := range p.Commands {
		result = append(result, c.String())
	}
	return result
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.IndexFunc(arg, needsQuoting) < 0 {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_./=@:+,", r):
		return false
	default:
		return true
	}
}
