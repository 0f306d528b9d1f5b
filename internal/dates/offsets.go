package dates

import (
	"fmt"
	"time"

	"canvassak/internal/canvas"
)

// Issue flags one assignment's date problem within a group.
type Issue struct {
	Name    string
	Message string
}

// CheckMissingDueDates returns the names of assignments with no due
// date, in input order.
func CheckMissingDueDates(assignments []canvas.Assignment) []string {
	var missing []string
	for _, a := range assignments {
		if a.DueAt == nil {
			missing = append(missing, a.Name)
		}
	}
	return missing
}

// GroupByAssignmentGroup partitions assignments by group name. Unknown
// group ids map to a synthetic "Unknown Group (id)" bucket.
func GroupByAssignmentGroup(assignments []canvas.Assignment, groupNames map[int64]string) map[string][]canvas.Assignment {
	groups := make(map[string][]canvas.Assignment)
	for _, a := range assignments {
		name, ok := groupNames[a.AssignmentGroupID]
		if !ok {
			name = fmt.Sprintf("Unknown Group (%d)", a.AssignmentGroupID)
		}
		groups[name] = append(groups[name], a)
	}
	return groups
}

// OffsetAnalysis is the result of checking one assignment group's
// due-to-lock offsets against the group's most common offset.
type OffsetAnalysis struct {
	// Mode is the most frequent due->lock offset; meaningless unless
	// HasMode is set.
	Mode    time.Duration
	HasMode bool

	// Counted is how many assignments contributed an offset.
	Counted int

	Issues []Issue
}

// nonSubmittable marks submission types that need no lock offset.
var nonSubmittable = map[string]bool{
	"none":       true,
	"not_graded": true,
}

// AnalyzeGroupOffsets computes each submittable assignment's
// lock-minus-due offset, finds the group's modal offset, and flags
// assignments that are missing dates or deviate from the mode.
//
// Assignments with neither date are skipped silently here; the due-date
// check reports those separately.
func AnalyzeGroupOffsets(assignments []canvas.Assignment) OffsetAnalysis {
	var analysis OffsetAnalysis
	var offsets []time.Duration
	var contributors []struct {
		name   string
		offset time.Duration
	}

	for _, a := range assignments {
		if isNonSubmittable(a.SubmissionTypes) {
			if a.DueAt == nil {
				analysis.Issues = append(analysis.Issues, Issue{
					Name:    a.Name,
					Message: "non-submittable assignment missing due date",
				})
			}
			continue
		}

		switch {
		case a.DueAt != nil && a.LockAt != nil:
			offset := a.LockAt.Sub(*a.DueAt)
			offsets = append(offsets, offset)
			contributors = append(contributors, struct {
				name   string
				offset time.Duration
			}{a.Name, offset})
		case a.DueAt != nil:
			analysis.Issues = append(analysis.Issues, Issue{
				Name:    a.Name,
				Message: "has due date but no until/lock date",
			})
		case a.LockAt != nil:
			analysis.Issues = append(analysis.Issues, Issue{
				Name:    a.Name,
				Message: "has until/lock date but no due date",
			})
		}
	}

	if len(offsets) == 0 {
		return analysis
	}

	analysis.Mode = modalOffset(offsets)
	analysis.HasMode = true
	analysis.Counted = len(offsets)

	for _, c := range contributors {
		if c.offset != analysis.Mode {
			analysis.Issues = append(analysis.Issues, Issue{
				Name: c.name,
				Message: fmt.Sprintf("offset is %s, expected %s",
					FormatDuration(c.offset), FormatDuration(analysis.Mode)),
			})
		}
	}
	return analysis
}

func isNonSubmittable(types []string) bool {
	for _, t := range types {
		if nonSubmittable[t] {
			return true
		}
	}
	return false
}

// modalOffset returns the most frequent offset; ties go to the offset
// whose first occurrence comes earliest.
func modalOffset(offsets []time.Duration) time.Duration {
	counts := make(map[time.Duration]int)
	var firstSeen []time.Duration
	for _, o := range offsets {
		if counts[o] == 0 {
			firstSeen = append(firstSeen, o)
		}
		counts[o]++
	}
	best := firstSeen[0]
	for _, o := range firstSeen[1:] {
		if counts[o] > counts[best] {
			best = o
		}
	}
	return best
}
