package validate

import (
	"context"
	"fmt"
	"sort"

	"canvassak/internal/canvas"
	"canvassak/internal/dates"
	"canvassak/internal/debug"
	"canvassak/internal/links"
	"canvassak/internal/report"
)

// Section names used for report grouping.
const (
	SectionDueDates = "due dates"
	SectionOffsets  = "until dates"
	SectionLinks    = "links"
	SectionModules  = "modules"
)

// LinkChecker answers external-link reachability. links.Checker
// satisfies it; tests substitute a fake.
type LinkChecker interface {
	Check(ctx context.Context, url string) links.Result
}

// linkWarmer pre-checks a batch of URLs concurrently so the findings
// loop answers from cache. links.Checker implements it.
type linkWarmer interface {
	Warm(ctx context.Context, urls []string, workers int)
}

// linkCheckWorkers bounds concurrent external link requests.
const linkCheckWorkers = 8

// Options selects which validation passes run.
type Options struct {
	CheckDates    bool
	CheckUntil    bool
	CheckLinks    bool
	ExternalLinks bool

	// SiteOrigin is the scheme://host of the LMS, for link
	// classification.
	SiteOrigin string

	// Checker is required when CheckLinks && ExternalLinks.
	Checker LinkChecker
}

// GroupOffsetSummary is one assignment group's offset result, kept for
// display alongside the findings.
type GroupOffsetSummary struct {
	Group    string
	Analysis dates.OffsetAnalysis
}

// Result is a full validation run over one course.
type Result struct {
	Report  report.Report
	Offsets []GroupOffsetSummary
}

// Course runs the selected validation passes and returns the collected
// findings.
func Course(ctx context.Context, course CourseContent, opts Options) (*Result, error) {
	res := &Result{}

	var assignments []canvas.Assignment
	if opts.CheckDates || opts.CheckUntil || opts.CheckLinks {
		var err error
		assignments, err = course.AssignmentsWithOverrides(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing assignments: %w", err)
		}
	}

	if opts.CheckDates {
		for _, name := range dates.CheckMissingDueDates(assignments) {
			res.Report.Addf(report.Warning, SectionDueDates, name, "missing due date")
		}
	}

	if opts.CheckUntil {
		if err := checkOffsets(ctx, course, assignments, res); err != nil {
			return nil, err
		}
	}

	if opts.CheckLinks {
		if err := checkLinks(ctx, course, assignments, opts, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func checkOffsets(ctx context.Context, course CourseContent, assignments []canvas.Assignment, res *Result) error {
	groupNames, err := course.AssignmentGroups(ctx)
	if err != nil {
		return fmt.Errorf("listing assignment groups: %w", err)
	}

	grouped := dates.GroupByAssignmentGroup(assignments, groupNames)
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		analysis := dates.AnalyzeGroupOffsets(grouped[name])
		res.Offsets = append(res.Offsets, GroupOffsetSummary{Group: name, Analysis: analysis})
		for _, issue := range analysis.Issues {
			res.Report.Addf(report.Warning, SectionOffsets, issue.Name, "%s", issue.Message)
		}
	}
	return nil
}

func checkLinks(ctx context.Context, course CourseContent, assignments []canvas.Assignment, opts Options, res *Result) error {
	resources, err := BuildResourceMap(ctx, course, assignments)
	if err != nil {
		return err
	}
	items, err := CollectContent(ctx, course, assignments)
	if err != nil {
		return err
	}
	debug.Logf("link check: %d resources, %d content items", len(resources), len(items))

	// Classify everything first so the distinct external URLs can be
	// checked in one bounded-concurrency batch before reporting.
	type scannedLink struct {
		subject  string
		category links.Category
		value    string
		raw      string
	}
	var scanned []scannedLink
	var external []string
	seenExternal := make(map[string]bool)

	courseID := course.ID()
	for _, item := range items {
		subject := fmt.Sprintf("%s %q", item.Type, item.Name)
		for _, link := range links.Extract(item.HTML) {
			category, value := links.Classify(link.URL, opts.SiteOrigin, courseID)
			if category == links.Skip {
				continue
			}
			scanned = append(scanned, scannedLink{subject, category, value, link.URL})
			if category == links.External && opts.ExternalLinks && !seenExternal[link.URL] {
				seenExternal[link.URL] = true
				external = append(external, link.URL)
			}
		}
	}

	if len(external) > 0 {
		if warmer, ok := opts.Checker.(linkWarmer); ok {
			warmer.Warm(ctx, external, linkCheckWorkers)
		}
	}

	for _, l := range scanned {
		switch l.category {
		case links.Internal:
			resource, ok := resources[l.value]
			switch {
			case !ok:
				res.Report.Addf(report.Warning, SectionLinks, l.subject, "%s - not found", l.value)
			case !resource.Published:
				res.Report.Addf(report.Warning, SectionLinks, l.subject, "%s - unpublished", l.value)
			}
		case links.InternalOther:
			res.Report.Addf(report.Warning, SectionLinks, l.subject,
				"%s - cross-course link (cannot verify)", l.raw)
		case links.External:
			if !opts.ExternalLinks {
				continue
			}
			if r := opts.Checker.Check(ctx, l.raw); !r.OK {
				res.Report.Addf(report.Warning, SectionLinks, l.subject, "%s - %s", l.raw, r.Message)
			}
		}
	}

	return checkModules(ctx, course, resources, res)
}

// checkModules verifies that published module items reference existing,
// published resources.
func checkModules(ctx context.Context, course CourseContent, resources ResourceMap, res *Result) error {
	modules, err := course.Modules(ctx)
	if err != nil {
		return fmt.Errorf("listing modules: %w", err)
	}

	courseID := course.ID()
	for _, m := range modules {
		if !m.Published {
			continue
		}
		for _, item := range m.Items {
			path, ok := modulePath(courseID, item)
			if !ok {
				continue
			}
			subject := fmt.Sprintf("Module %q: %q", m.Name, item.Title)
			resource, found := resources[path]
			switch {
			case !found:
				res.Report.Addf(report.Warning, SectionModules, subject, "references missing resource")
			case !resource.Published:
				res.Report.Addf(report.Warning, SectionModules, subject,
					"references unpublished %s: %q", resource.Type, resource.Name)
			}
		}
	}
	return nil
}
