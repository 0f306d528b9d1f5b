package derive

import "fmt"

// TargetNotFoundError reports that the target assignment specifier
// matched nothing.
type TargetNotFoundError struct {
	Target string
	Err    error
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target assignment %q not found: %v", e.Target, e.Err)
}

func (e *TargetNotFoundError) Unwrap() error { return e.Err }

// ErrNoVariables means the formula references no assignments, so there
// is nothing to derive from.
var ErrNoVariables = fmt.Errorf("formula contains no assignment variables")

// InvalidFormulaError wraps a syntax or validation diagnostic.
type InvalidFormulaError struct {
	Formula string
	Err     error
}

func (e *InvalidFormulaError) Error() string {
	return fmt.Sprintf("invalid formula %q: %v", e.Formula, e.Err)
}

func (e *InvalidFormulaError) Unwrap() error { return e.Err }

// VariableError wraps a variable that failed to resolve to an
// assignment, either not-found or ambiguous.
type VariableError struct {
	Variable string
	Err      error
}

func (e *VariableError) Error() string {
	return fmt.Sprintf("variable %s: %v", e.Variable, e.Err)
}

func (e *VariableError) Unwrap() error { return e.Err }

// DuplicateReferenceError reports two formula variables resolving to
// the same assignment.
type DuplicateReferenceError struct {
	First, Second  string
	AssignmentName string
}

func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("variables %s and %s both refer to assignment %q",
		e.First, e.Second, e.AssignmentName)
}

// ZeroPointsError reports an assignment whose scores cannot be
// normalized to percentages.
type ZeroPointsError struct {
	AssignmentName string
}

func (e *ZeroPointsError) Error() string {
	return fmt.Sprintf("assignment %q has no points possible; cannot compute percentages",
		e.AssignmentName)
}
