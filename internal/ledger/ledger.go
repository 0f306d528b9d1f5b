// Package ledger encodes the change-score audit trail left on
// submissions by automated grade updates.
//
// Every automated write attaches a one-line comment recording the score
// it replaced and the score it wrote:
//
//	change-score previous: 85 new: 90
//	change-score new: 90
//
// The second shape means no previous score existed. Walking these
// records backward recovers the last human-entered score across any
// number of repeated tool runs. The comment text is a persisted wire
// format: it must stay parseable across tool versions.
package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	withPrevPattern = regexp.MustCompile(`^change-score\s+previous:\s*([\d.]+)\s+new:\s*([\d.]+)$`)
	noPrevPattern   = regexp.MustCompile(`^change-score\s+new:\s*([\d.]+)$`)
)

// Record is one change-score fact: the score before an automated write
// (nil when none existed) and the score it wrote.
type Record struct {
	Previous *float64
	New      float64
}

// Format renders a record as the persisted comment text.
func Format(previous *float64, newScore float64) string {
	if previous == nil {
		return fmt.Sprintf("change-score new: %s", formatScore(newScore))
	}
	return fmt.Sprintf("change-score previous: %s new: %s", formatScore(*previous), formatScore(newScore))
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Parse decodes a change-score comment. The second return is false for
// any text that is not a change-score record; that is not an error,
// submissions carry plenty of unrelated comments.
func Parse(comment string) (Record, bool) {
	text := strings.TrimSpace(comment)
	if text == "" {
		return Record{}, false
	}
	if m := withPrevPattern.FindStringSubmatch(text); m != nil {
		prev, err1 := strconv.ParseFloat(m[1], 64)
		next, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			return Record{}, false
		}
		return Record{Previous: &prev, New: next}, true
	}
	if m := noPrevPattern.FindStringSubmatch(text); m != nil {
		next, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Record{}, false
		}
		return Record{New: next}, true
	}
	return Record{}, false
}

// LastManualScore walks the change-score records in a submission's
// comments (oldest first) to recover the score a human last entered.
//
// If no records exist, or the current score does not match the latest
// record's new value (a human edited after the last tool run), the
// current score is itself the manual score. Otherwise the chain of
// previous values is followed backward; a record whose previous is
// absent terminates the chain with no known manual origin (nil).
func LastManualScore(currentScore float64, comments []string) *float64 {
	var records []Record
	for _, text := range comments {
		if rec, ok := Parse(text); ok {
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		return &currentScore
	}

	latest := records[len(records)-1]
	if currentScore != latest.New {
		// Manually changed after the last tool run.
		return &currentScore
	}

	target := latest.Previous
	if target == nil {
		return nil
	}

	// Follow the chain through earlier records, newest first. Records
	// whose new value doesn't match the current target belong to a
	// different chain and are skipped.
	for i := len(records) - 2; i >= 0; i-- {
		if records[i].New == *target {
			target = records[i].Previous
			if target == nil {
				return nil
			}
		}
	}
	return target
}
