package checks

import "fmt"

// PatternCompileError reports a rule whose pattern is not a valid regular
// expression.
type PatternCompileError struct {
	ID      string
	Pattern string
	Err     error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("check %q: compiling pattern %q: %v", e.ID, e.Pattern, e.Err)
}

func (e *PatternCompileError) Unwrap() error { return e.Err }

// DuplicateIDError reports two rules sharing one id.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate check id %q", e.ID)
}

// InvalidCheckError reports a rule with a missing or malformed field.
type InvalidCheckError struct {
	ID     string
	Reason string
}

func (e *InvalidCheckError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid check: %s", e.Reason)
	}
	return fmt.Sprintf("invalid check %q: %s", e.ID, e.Reason)
}
