package guard

import (
	"errors"
	"fmt"

	"github.com/hpkotak/shellfirm/internal/checks"
	"github.com/hpkotak/shellfirm/internal/settings"
)

// Status is the terminal decision for one intercepted command.
type Status int

const (
	Allow Status = iota
	Abort
	ConfigError
)

// Process exit codes. Any other CLI failure exits with 1.
const (
	ExitAllow       = 0
	ExitConfigError = 2
	ExitAbort       = 3
)

func (s Status) String() string {
	switch s {
	case Allow:
		return "allow"
	case Abort:
		return "abort"
	case ConfigError:
		return "config_error"
	default:
		return "unknown"
	}
}

// ExitCode maps the status to the process exit code.
func (s Status) ExitCode() int {
	switch s {
	case Allow:
		return ExitAllow
	case Abort:
		return ExitAbort
	default:
		return ExitConfigError
	}
}

// Result is what Evaluate hands back to the CLI.
type Result struct {
	Status     Status
	Message    string
	Matches    []checks.Check
	Challenged bool
}

// Failure converts a catalog or settings load error into a ConfigError
// result. Unusable settings files get a hint on how to recover.
func Failure(err error) Result {
	msg := err.Error()
	var pe *settings.ParseError
	if errors.As(err, &pe) {
		msg = fmt.Sprintf("%s\nrun `shellfirm config reset` to restore default settings", msg)
	}
	return Result{Status: ConfigError, Message: msg}
}
