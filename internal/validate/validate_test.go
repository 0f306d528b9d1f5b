package validate

import (
	"context"
	"strings"
	"testing"
	"time"

	"canvassak/internal/canvas"
	"canvassak/internal/links"
	"canvassak/internal/report"
)

func tpt(t time.Time) *time.Time { return &t }

type fakeContent struct {
	id          int64
	assignments []canvas.Assignment
	groups      map[int64]string
	pages       []canvas.Page
	discussions []canvas.Discussion
	quizzes     []canvas.Quiz
	files       []canvas.File
	modules     []canvas.Module
}

func (f *fakeContent) ID() int64 { return f.id }
func (f *fakeContent) AssignmentsWithOverrides(context.Context) ([]canvas.Assignment, error) {
	return f.assignments, nil
}
func (f *fakeContent) AssignmentGroups(context.Context) (map[int64]string, error) {
	return f.groups, nil
}
func (f *fakeContent) Pages(context.Context, bool) ([]canvas.Page, error) { return f.pages, nil }
func (f *fakeContent) Discussions(context.Context) ([]canvas.Discussion, error) {
	return f.discussions, nil
}
func (f *fakeContent) Quizzes(context.Context) ([]canvas.Quiz, error) { return f.quizzes, nil }
func (f *fakeContent) Files(context.Context) ([]canvas.File, error)   { return f.files, nil }
func (f *fakeContent) Modules(context.Context) ([]canvas.Module, error) {
	return f.modules, nil
}

// fakeChecker marks every URL in bad as unreachable.
type fakeChecker struct {
	bad     map[string]string
	checked []string
}

func (f *fakeChecker) Check(_ context.Context, url string) links.Result {
	f.checked = append(f.checked, url)
	if msg, ok := f.bad[url]; ok {
		return links.Result{Message: msg}
	}
	return links.Result{OK: true}
}

// warmChecker additionally records Warm batches, like links.Checker.
type warmChecker struct {
	fakeChecker
	warmed  []string
	workers int
}

func (w *warmChecker) Warm(ctx context.Context, urls []string, workers int) {
	if len(w.checked) > 0 {
		panic("Warm called after individual checks")
	}
	w.warmed = append(w.warmed, urls...)
	w.workers = workers
	for _, u := range urls {
		w.Check(ctx, u)
	}
}

func findings(r *Result, section string) []report.Finding {
	_, grouped := r.Report.BySection()
	return grouped[section]
}

func TestCourse_DueDates(t *testing.T) {
	course := &fakeContent{
		id: 42,
		assignments: []canvas.Assignment{
			{Name: "HW 1", DueAt: tpt(time.Now()), SubmissionTypes: []string{"online_upload"}},
			{Name: "HW 2", SubmissionTypes: []string{"online_upload"}},
		},
	}
	res, err := Course(context.Background(), course, Options{CheckDates: true})
	if err != nil {
		t.Fatalf("Course: %v", err)
	}
	got := findings(res, SectionDueDates)
	if len(got) != 1 || got[0].Subject != "HW 2" {
		t.Errorf("due date findings = %+v", got)
	}
	if res.Report.Issues() != 1 {
		t.Errorf("issues = %d", res.Report.Issues())
	}
}

func TestCourse_UntilOffsets(t *testing.T) {
	due := time.Date(2024, 2, 1, 23, 59, 0, 0, time.UTC)
	day := 24 * time.Hour
	mk := func(name string, group int64, dueAt time.Time, lock time.Duration) canvas.Assignment {
		return canvas.Assignment{
			Name:              name,
			AssignmentGroupID: group,
			DueAt:             tpt(dueAt),
			LockAt:            tpt(dueAt.Add(lock)),
			SubmissionTypes:   []string{"online_upload"},
		}
	}
	course := &fakeContent{
		id:     42,
		groups: map[int64]string{1: "Homework"},
		assignments: []canvas.Assignment{
			mk("HW 1", 1, due, 2*day),
			mk("HW 2", 1, due.Add(7*day), 2*day),
			mk("HW 3", 1, due.Add(14*day), day),
		},
	}
	res, err := Course(context.Background(), course, Options{CheckUntil: true})
	if err != nil {
		t.Fatalf("Course: %v", err)
	}
	if len(res.Offsets) != 1 || res.Offsets[0].Group != "Homework" {
		t.Fatalf("offsets = %+v", res.Offsets)
	}
	if res.Offsets[0].Analysis.Mode != 2*day {
		t.Errorf("mode = %v", res.Offsets[0].Analysis.Mode)
	}
	got := findings(res, SectionOffsets)
	if len(got) != 1 || got[0].Subject != "HW 3" {
		t.Errorf("offset findings = %+v", got)
	}
}

func linkCourse() *fakeContent {
	return &fakeContent{
		id: 42,
		pages: []canvas.Page{
			{URL: "syllabus", Title: "Syllabus", Published: true, Body: `
				<a href="/courses/42/assignments/7">published hw</a>
				<a href="/courses/42/assignments/8">unpublished hw</a>
				<a href="/courses/42/pages/missing">gone</a>
				<a href="/courses/99/pages/other">other course</a>
				<a href="https://example.org/dead">dead external</a>
				<a href="https://example.org/alive">live external</a>
				<a href="#top">fragment</a>`},
			{URL: "hidden", Title: "Hidden", Published: false, Body: `<a href="/courses/42/pages/missing">x</a>`},
		},
		assignments: []canvas.Assignment{
			{ID: 7, Name: "HW 1", Published: true},
			{ID: 8, Name: "HW 2", Published: false},
		},
	}
}

func TestCourse_Links(t *testing.T) {
	checker := &fakeChecker{bad: map[string]string{"https://example.org/dead": "HTTP 404"}}
	res, err := Course(context.Background(), linkCourse(), Options{
		CheckLinks:    true,
		ExternalLinks: true,
		SiteOrigin:    "https://canvas.example.com",
		Checker:       checker,
	})
	if err != nil {
		t.Fatalf("Course: %v", err)
	}

	got := findings(res, SectionLinks)
	if len(got) != 4 {
		t.Fatalf("link findings = %+v", got)
	}
	wantSubstrings := []string{
		"/courses/42/assignments/8 - unpublished",
		"/courses/42/pages/missing - not found",
		"cross-course link",
		"https://example.org/dead - HTTP 404",
	}
	for i, want := range wantSubstrings {
		if !strings.Contains(got[i].Message, want) {
			t.Errorf("finding %d = %q, want substring %q", i, got[i].Message, want)
		}
	}
	// Unpublished page bodies are never scanned.
	for _, f := range got {
		if strings.Contains(f.Subject, "Hidden") {
			t.Errorf("scanned unpublished page: %+v", f)
		}
	}
	if len(checker.checked) != 2 {
		t.Errorf("external checks = %v", checker.checked)
	}
}

func TestCourse_WarmsExternalLinksOnce(t *testing.T) {
	course := &fakeContent{
		id: 42,
		pages: []canvas.Page{
			{URL: "wk1", Title: "Week 1", Published: true, Body: `
				<a href="https://example.org/dead">broken</a>
				<a href="https://example.org/alive">ok</a>`},
			{URL: "wk2", Title: "Week 2", Published: true, Body: `
				<a href="https://example.org/dead">broken again</a>`},
		},
	}
	checker := &warmChecker{fakeChecker: fakeChecker{
		bad: map[string]string{"https://example.org/dead": "HTTP 404"},
	}}
	res, err := Course(context.Background(), course, Options{
		CheckLinks:    true,
		ExternalLinks: true,
		SiteOrigin:    "https://canvas.example.com",
		Checker:       checker,
	})
	if err != nil {
		t.Fatalf("Course: %v", err)
	}

	// The warm batch holds each distinct URL exactly once, before any
	// per-finding check runs.
	want := []string{"https://example.org/dead", "https://example.org/alive"}
	if len(checker.warmed) != 2 || checker.warmed[0] != want[0] || checker.warmed[1] != want[1] {
		t.Errorf("warmed = %v, want %v", checker.warmed, want)
	}
	if checker.workers < 1 {
		t.Errorf("workers = %d", checker.workers)
	}

	got := findings(res, SectionLinks)
	if len(got) != 2 {
		t.Fatalf("link findings = %+v", got)
	}
	for _, f := range got {
		if !strings.Contains(f.Message, "example.org/dead") {
			t.Errorf("finding = %+v, want dead link", f)
		}
	}
}

func TestCourse_LinksWithoutExternal(t *testing.T) {
	res, err := Course(context.Background(), linkCourse(), Options{
		CheckLinks: true,
		SiteOrigin: "https://canvas.example.com",
	})
	if err != nil {
		t.Fatalf("Course: %v", err)
	}
	for _, f := range findings(res, SectionLinks) {
		if strings.Contains(f.Message, "example.org") {
			t.Errorf("external link reported with checks off: %+v", f)
		}
	}
}

func TestCourse_ModuleItems(t *testing.T) {
	course := linkCourse()
	course.modules = []canvas.Module{
		{Name: "Week 1", Published: true, Items: []canvas.ModuleItem{
			{Title: "Read the syllabus", Type: "Page", PageURL: "syllabus"},
			{Title: "HW 2", Type: "Assignment", ContentID: 8},
			{Title: "Ghost quiz", Type: "Quiz", ContentID: 1234},
			{Title: "Intro", Type: "SubHeader"},
		}},
		{Name: "Draft week", Published: false, Items: []canvas.ModuleItem{
			{Title: "Broken", Type: "Quiz", ContentID: 9999},
		}},
	}

	res, err := Course(context.Background(), course, Options{
		CheckLinks: true,
		SiteOrigin: "https://canvas.example.com",
	})
	if err != nil {
		t.Fatalf("Course: %v", err)
	}

	got := findings(res, SectionModules)
	if len(got) != 2 {
		t.Fatalf("module findings = %+v", got)
	}
	if !strings.Contains(got[0].Subject, "HW 2") || !strings.Contains(got[0].Message, "unpublished Assignment") {
		t.Errorf("finding 0 = %+v", got[0])
	}
	if !strings.Contains(got[1].Subject, "Ghost quiz") || got[1].Message != "references missing resource" {
		t.Errorf("finding 1 = %+v", got[1])
	}
}
