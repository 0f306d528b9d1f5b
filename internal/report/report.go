// Package report collects validation findings for console output.
package report

import "fmt"

// Severity orders findings from informational to actionable.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Finding is one observation about a course: a broken link, a date
// outlier, an unpublished module item.
type Finding struct {
	Severity Severity
	Section  string // e.g. "links", "due dates", "modules"
	Subject  string // the content item or assignment involved
	Message  string
}

// Report accumulates findings across validation passes.
type Report struct {
	Findings []Finding
}

func (r *Report) Add(f Finding) {
	r.Findings = append(r.Findings, f)
}

func (r *Report) Addf(severity Severity, section, subject, format string, args ...any) {
	r.Add(Finding{
		Severity: severity,
		Section:  section,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Issues counts findings at Warning or above.
func (r *Report) Issues() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity >= Warning {
			n++
		}
	}
	return n
}

// BySection groups findings preserving first-seen section order.
func (r *Report) BySection() ([]string, map[string][]Finding) {
	var order []string
	grouped := make(map[string][]Finding)
	for _, f := range r.Findings {
		if _, ok := grouped[f.Section]; !ok {
			order = append(order, f.Section)
		}
		grouped[f.Section] = append(grouped[f.Section], f)
	}
	return order, grouped
}
