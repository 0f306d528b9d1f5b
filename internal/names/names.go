// Package names canonicalizes assignment titles and formula variable
// names into a shared token space so the two can be matched fuzzily.
//
// "Quiz 1", "Quiz - 1", "Quiz-1", and "Quiz_1" all normalize to the
// token "Quiz_1", which is what a formula author writes.
package names

import (
	"fmt"
	"regexp"
	"strings"
)

// operatorRun matches any run of whitespace or arithmetic operator
// characters. Each run collapses into a single underscore.
var operatorRun = regexp.MustCompile(`[\s+\-*/]+`)

// Normalize replaces runs of spaces and math operators (+ - * /) with a
// single underscore and strips leading/trailing underscores.
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	return strings.Trim(operatorRun.ReplaceAllString(name, "_"), "_")
}

// Ref is the minimal assignment identity the resolver needs.
type Ref struct {
	ID    int64
	Title string
}

// NotFoundError reports a variable that matched no assignment. It lists
// every available title together with its normalized form so the user
// can see what token to write.
type NotFoundError struct {
	Variable  string
	Available []Ref
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "assignment for variable %q not found. Available:", e.Variable)
	for _, r := range e.Available {
		fmt.Fprintf(&b, "\n    %s (formula name: %s)", r.Title, Normalize(r.Title))
	}
	return b.String()
}

// AmbiguousError reports a variable whose normalized token is contained
// in more than one assignment title with no exact-match winner.
type AmbiguousError struct {
	Variable   string
	Candidates []Ref
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "multiple assignments match %q:", e.Variable)
	for _, r := range e.Candidates {
		fmt.Fprintf(&b, "\n    %s", r.Title)
	}
	return b.String()
}

// Resolve finds the assignment a formula variable refers to.
//
// The variable and every title are normalized; candidates are titles
// whose normalized form contains the normalized variable as a
// substring. With multiple candidates, a single exact normalized match
// wins; otherwise the lookup is ambiguous. Candidate order follows the
// input slice, so diagnostics are stable.
//
// A variable like Quiz_1 can also match "Quiz 10"; the exact-match
// tiebreak only helps when a "Quiz 1" exists too. This is a known,
// documented looseness of substring matching.
func Resolve(variable string, assignments []Ref) (Ref, error) {
	token := Normalize(variable)

	var matches []Ref
	for _, a := range assignments {
		if strings.Contains(Normalize(a.Title), token) {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		return Ref{}, &NotFoundError{Variable: variable, Available: assignments}
	case 1:
		return matches[0], nil
	}

	var exact []Ref
	for _, a := range matches {
		if Normalize(a.Title) == token {
			exact = append(exact, a)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	return Ref{}, &AmbiguousError{Variable: variable, Candidates: matches}
}
