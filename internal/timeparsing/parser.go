// Package timeparsing provides layered parsing for the date values in
// dates files.
//
// Parsing tries, in order:
//  1. The canonical dates-file layout (2006-01-02-15:04, local time)
//  2. Compact durations relative to now (+6h, -1d, +2w)
//  3. Natural language ("next friday 23:59", "tomorrow")
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Layout is the canonical dates-file timestamp format, interpreted in
// local time.
const Layout = "2006-01-02-15:04"

// compactDurationRe matches compact duration patterns: [+-]?(\d+)([hdwmy])
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

var nlParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// Parse interprets a dates-file value relative to now.
func Parse(s string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(Layout, s, time.Local); err == nil {
		return t, nil
	}

	if IsCompactDuration(s) {
		return ParseCompactDuration(s, now)
	}

	r, err := nlParser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q (want %s, a duration like +1w, or natural language)", s, Layout)
	}
	return r.Time, nil
}

// ParseCompactDuration parses compact duration syntax relative to now.
//
// Format: [+-]?(\d+)([hdwmy]) for hours, days, weeks, months, years.
// "+2w" is two weeks from now; a missing sign means positive.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	matches := compactDurationRe.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}

	amount, err := strconv.Atoi(matches[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", matches[2])
	}
	if matches[1] == "-" {
		amount = -amount
	}

	switch matches[3] {
	case "h":
		return now.Add(time.Duration(amount) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, amount), nil
	case "w":
		return now.AddDate(0, 0, amount*7), nil
	case "m":
		return now.AddDate(0, amount, 0), nil
	case "y":
		return now.AddDate(amount, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("unknown duration unit %q", matches[3])
}

// IsCompactDuration reports whether s matches compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}
