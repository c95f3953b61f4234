package nargo

import (
	"fmt"
	"strings"
)

// CompilerInvocationError reports a nargo invocation that failed.
type CompilerInvocationError struct {
	Args []string
	// ExitCode is -1 when the process could not be started or was killed.
	ExitCode int
	Output   string
	Err      error
}

func (e *CompilerInvocationError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ":\n" + out
	}
	return msg
}

func (e *CompilerInvocationError) Unwrap() error { return e.Err }

// VersionMismatchWarning describes an installed nargo that does not match
// what the project expects. It is logged, never returned.
type VersionMismatchWarning struct {
	Expected string
	// Constraint is the manifest's compiler_version requirement, if that is
	// what failed.
	Constraint string
	// Found is empty when the version could not be determined.
	Found  string
	Output string
}

func (w *VersionMismatchWarning) Error() string {
	switch {
	case w.Found == "":
		return "nargo version could not be determined"
	case w.Constraint != "":
		return fmt.Sprintf("nargo %s does not satisfy the package requirement %s", w.Found, w.Constraint)
	default:
		return fmt.Sprintf("the installed nargo %s does not match the expected %s; this may cause issues when compiling or deploying contracts", w.Found, w.Expected)
	}
}
