// Package derive plans and commits formula-driven assignment scores.
//
// A plan resolves the target and every formula variable to concrete
// assignments, normalizes each student's scores to percentages, and
// evaluates the formula per student. Planning never mutates course
// state; Commit posts grades with a ledger comment per student.
package derive

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"canvassak/internal/canvas"
	"canvassak/internal/debug"
	"canvassak/internal/formula"
	"canvassak/internal/ledger"
	"canvassak/internal/names"
)

// CourseData is the slice of a course session that planning needs.
type CourseData interface {
	Assignments(ctx context.Context) ([]canvas.Assignment, error)
	Submissions(ctx context.Context, assignmentID int64, includeComments bool) ([]canvas.Submission, error)
	Enrollments(ctx context.Context) ([]canvas.Enrollment, error)
}

// GradeWriter commits one student's grade. canvas.CourseSession
// satisfies both interfaces.
type GradeWriter interface {
	GradeSubmission(ctx context.Context, assignmentID, userID int64, grade float64, comment string) error
}

// Options controls planning.
type Options struct {
	// Target is the assignment receiving derived scores, matched by
	// name the same way formula variables are.
	Target string

	// Formula is the arithmetic expression over assignment variables.
	Formula string

	// UseLastAssigned recovers each student's audit-previous value by
	// walking the change-score comment chain instead of taking the
	// current raw score.
	UseLastAssigned bool
}

// StudentScore is one student's planned score change.
type StudentScore struct {
	UserID   int64
	Name     string // empty when the enrollment is unknown
	NewScore float64

	// Previous feeds the ledger comment; nil means no known manual
	// origin.
	Previous *float64

	// Inputs are the percentage bindings the formula was evaluated
	// with, keyed by variable.
	Inputs map[string]float64
}

// SkippedStudent is one student the plan could not score.
type SkippedStudent struct {
	UserID int64
	Name   string
	Reason string
}

// Plan is the fully resolved result of a dry run.
type Plan struct {
	Target    canvas.Assignment
	Formula   *formula.Formula
	Variables []string
	// Bindings maps each formula variable to its resolved assignment.
	Bindings map[string]canvas.Assignment

	Scores  []StudentScore
	Skipped []SkippedStudent
}

// CommitResult tallies a committed plan.
type CommitResult struct {
	Updated int
	// Failed maps user id to the write error; failures are
	// independent and never stop other writes.
	Failed map[int64]error
}

// BuildPlan resolves opts against the course and computes every
// student's new score. It is read-only: all input errors are detected
// here, before any mutation.
func BuildPlan(ctx context.Context, course CourseData, opts Options) (*Plan, error) {
	assignments, err := course.Assignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	refs := make([]names.Ref, len(assignments))
	byID := make(map[int64]canvas.Assignment, len(assignments))
	for i, a := range assignments {
		refs[i] = names.Ref{ID: a.ID, Title: a.Name}
		byID[a.ID] = a
	}

	targetRef, err := names.Resolve(opts.Target, refs)
	if err != nil {
		return nil, &TargetNotFoundError{Target: opts.Target, Err: err}
	}
	target := byID[targetRef.ID]

	variables := formula.ExtractVariables(opts.Formula)
	if len(variables) == 0 {
		return nil, ErrNoVariables
	}
	if err := formula.Validate(opts.Formula, variables); err != nil {
		return nil, &InvalidFormulaError{Formula: opts.Formula, Err: err}
	}
	f, err := formula.Parse(opts.Formula)
	if err != nil {
		return nil, &InvalidFormulaError{Formula: opts.Formula, Err: err}
	}

	bindings := make(map[string]canvas.Assignment, len(variables))
	seen := make(map[int64]string, len(variables))
	for _, v := range variables {
		ref, err := names.Resolve(v, refs)
		if err != nil {
			return nil, &VariableError{Variable: v, Err: err}
		}
		if first, dup := seen[ref.ID]; dup {
			return nil, &DuplicateReferenceError{
				First:          first,
				Second:         v,
				AssignmentName: ref.Title,
			}
		}
		seen[ref.ID] = v
		bindings[v] = byID[ref.ID]
	}

	// percentages[variable][userID] = score/points*100
	percentages := make(map[string]map[int64]float64, len(variables))
	for _, v := range variables {
		a := bindings[v]
		if a.PointsPossible == nil || *a.PointsPossible == 0 {
			return nil, &ZeroPointsError{AssignmentName: a.Name}
		}
		subs, err := course.Submissions(ctx, a.ID, false)
		if err != nil {
			return nil, fmt.Errorf("listing submissions for %q: %w", a.Name, err)
		}
		byUser := make(map[int64]float64, len(subs))
		for _, s := range subs {
			if s.Score != nil {
				byUser[s.UserID] = *s.Score / *a.PointsPossible * 100
			}
		}
		percentages[v] = byUser
		debug.Logf("variable %s -> %q: %d scored submissions", v, a.Name, len(byUser))
	}

	studentNames, err := studentNames(ctx, course)
	if err != nil {
		return nil, err
	}

	targetSubs, err := course.Submissions(ctx, target.ID, opts.UseLastAssigned)
	if err != nil {
		return nil, fmt.Errorf("listing submissions for %q: %w", target.Name, err)
	}

	plan := &Plan{
		Target:    target,
		Formula:   f,
		Variables: variables,
		Bindings:  bindings,
	}
	for _, sub := range targetSubs {
		name := studentNames[sub.UserID]

		inputs := make(map[string]float64, len(variables))
		var missing []string
		for _, v := range variables {
			pct, ok := percentages[v][sub.UserID]
			if !ok {
				missing = append(missing, v)
				continue
			}
			inputs[v] = pct
		}
		if len(missing) > 0 {
			plan.Skipped = append(plan.Skipped, SkippedStudent{
				UserID: sub.UserID,
				Name:   name,
				Reason: "missing scores for " + strings.Join(missing, ", "),
			})
			continue
		}

		value, err := f.Eval(inputs)
		if err != nil {
			plan.Skipped = append(plan.Skipped, SkippedStudent{
				UserID: sub.UserID,
				Name:   name,
				Reason: fmt.Sprintf("formula failed: %v", err),
			})
			continue
		}

		plan.Scores = append(plan.Scores, StudentScore{
			UserID:   sub.UserID,
			Name:     name,
			NewScore: value,
			Previous: previousScore(sub, opts.UseLastAssigned),
			Inputs:   inputs,
		})
	}

	sort.Slice(plan.Scores, func(i, j int) bool {
		return plan.Scores[i].Name < plan.Scores[j].Name
	})
	return plan, nil
}

// previousScore picks the audit-previous value for one submission.
func previousScore(sub canvas.Submission, useLastAssigned bool) *float64 {
	if !useLastAssigned {
		return sub.Score
	}
	if sub.Score == nil {
		// Nothing was ever assigned; there is no manual origin.
		return nil
	}
	comments := make([]string, len(sub.Comments))
	for i, c := range sub.Comments {
		comments[i] = c.Comment
	}
	return ledger.LastManualScore(*sub.Score, comments)
}

func studentNames(ctx context.Context, course CourseData) (map[int64]string, error) {
	enrollments, err := course.Enrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}
	byID := make(map[int64]string, len(enrollments))
	for _, e := range enrollments {
		byID[e.User.ID] = e.User.Name
	}
	return byID, nil
}

// Progress is called after each attempted write during Commit.
type Progress func(score StudentScore, err error)

// Commit posts every planned score with its ledger comment. Writes are
// independent per student: a failure is recorded and the remaining
// writes proceed.
func (p *Plan) Commit(ctx context.Context, writer GradeWriter, progress Progress) CommitResult {
	result := CommitResult{Failed: make(map[int64]error)}
	for _, s := range p.Scores {
		comment := ledger.Format(s.Previous, s.NewScore)
		err := writer.GradeSubmission(ctx, p.Target.ID, s.UserID, s.NewScore, comment)
		if err != nil {
			result.Failed[s.UserID] = err
		} else {
			result.Updated++
		}
		if progress != nil {
			progress(s, err)
		}
	}
	return result
}
