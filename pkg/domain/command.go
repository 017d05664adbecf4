package domain

import (
	"strings"
	"time"
)

// CommandSpec describes one operating-system process to run.
//
// The command is always an ordered argument vector (program name first).
// There is deliberately no field and no constructor that accepts a single
// shell string: the process is created directly from Argv, so shell
// parsing never happens and injection via concatenation is structurally
// impossible.
type CommandSpec struct {
	// Argv is the program name followed by its arguments.
	Argv []string

	// Dir is the working directory. Empty means the caller's cwd.
	Dir string

	// Timeout bounds the total wall-clock time of the process.
	// Zero means DefaultTimeout.
	Timeout time.Duration

	// Env contains environment variable overrides appended to the
	// inherited environment.
	Env map[string]string

	// CheckExitCode treats a non-zero exit as a CommandFailedError.
	// Callers that inspect the exit code themselves leave it off.
	CheckExitCode bool

	// DiscardOutput skips collecting stdout/stderr into the
	// ExecutionResult. Output is captured by default.
	DiscardOutput bool
}

// DefaultTimeout applies when CommandSpec.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Program returns the executable name, or "" for an empty spec.
func (c CommandSpec) Program() string {
	if len(c.Argv) == 0 {
		return ""
	}
	return c.Argv[0]
}

// String renders the argv with shell-style quoting for audit logs.
// The result is for humans only and is never handed back to a shell.
func (c CommandSpec) String() string {
	quoted := make([]string, len(c.Argv))
	for i, arg := range c.Argv {
		quoted[i] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n\"'`$&|;<>(){}*?#~=%\\") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}

// ExecutionResult captures the outcome of one executed process.
// It is immutable and returned by value.
type ExecutionResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Elapsed  time.Duration
}
