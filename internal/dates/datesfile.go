package dates

import (
	"fmt"
	"strings"
	"time"

	"canvassak/internal/canvas"
	"canvassak/internal/timeparsing"
)

// Entry is one parsed dates-file line: an assignment name, an optional
// section override, and the dates to set.
type Entry struct {
	RawName        string
	AssignmentName string
	SectionName    string // empty when no [Section] suffix
	Dates          canvas.DateSet
}

// ParseLine parses one dates-file line of the form
//
//	name<TAB>key=value,key=value
//
// where keys are available, due, and until. Values use the canonical
// layout, a compact duration, or natural language (see timeparsing).
// Blank lines return (nil, nil).
func ParseLine(line string, now time.Time) (*Entry, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	name, value, found := strings.Cut(line, "\t")
	if !found {
		return nil, fmt.Errorf("malformed line (missing tab): %s", line)
	}

	dateSet, err := ParseEntries(value, now)
	if err != nil {
		return nil, err
	}

	base, section := SplitAssignmentName(name)
	return &Entry{
		RawName:        name,
		AssignmentName: base,
		SectionName:    section,
		Dates:          dateSet,
	}, nil
}

// ParseEntries parses a comma-separated date entry list like
// "available=2024-01-15-09:00,due=2024-01-22-23:59". Entries without
// an '=' and unknown keys are ignored.
func ParseEntries(value string, now time.Time) (canvas.DateSet, error) {
	var dates canvas.DateSet
	for _, entry := range strings.Split(value, ",") {
		key, val, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		t, err := timeparsing.Parse(val, now)
		if err != nil {
			return canvas.DateSet{}, fmt.Errorf("%s: %w", key, err)
		}

		switch key {
		case "available":
			dates.UnlockAt = &t
		case "due":
			dates.DueAt = &t
		case "until":
			dates.LockAt = &t
		}
	}
	return dates, nil
}

// SplitAssignmentName separates an optional trailing section override:
// "Quiz 1 [Section A]" -> ("Quiz 1", "Section A").
func SplitAssignmentName(name string) (base, section string) {
	if strings.HasSuffix(name, "]") {
		if i := strings.LastIndex(name, "["); i >= 0 {
			return strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1 : len(name)-1])
		}
	}
	return name, ""
}

// FormatEntries renders assignment dates in dates-file form, local
// time. Nil dates are omitted; all nil yields an empty string.
func FormatEntries(unlock, due, lock *time.Time) string {
	var entries []string
	if unlock != nil {
		entries = append(entries, "available="+unlock.Local().Format(timeparsing.Layout))
	}
	if due != nil {
		entries = append(entries, "due="+due.Local().Format(timeparsing.Layout))
	}
	if lock != nil {
		entries = append(entries, "until="+lock.Local().Format(timeparsing.Layout))
	}
	return strings.Join(entries, ",")
}
