// Package validate checks a course's configuration: due dates, lock
// date consistency per assignment group, and link integrity across
// pages, assignments, discussions, quizzes, and modules.
package validate

import (
	"context"
	"fmt"

	"canvassak/internal/canvas"
)

// CourseContent is the slice of a course session validation reads.
type CourseContent interface {
	ID() int64
	AssignmentsWithOverrides(ctx context.Context) ([]canvas.Assignment, error)
	AssignmentGroups(ctx context.Context) (map[int64]string, error)
	Pages(ctx context.Context, includeBody bool) ([]canvas.Page, error)
	Discussions(ctx context.Context) ([]canvas.Discussion, error)
	Quizzes(ctx context.Context) ([]canvas.Quiz, error)
	Files(ctx context.Context) ([]canvas.File, error)
	Modules(ctx context.Context) ([]canvas.Module, error)
}

// Resource is one internally linkable content item.
type Resource struct {
	Type      string // Page, Assignment, Discussion, Quiz, File
	Name      string
	Published bool
}

// ResourceMap indexes a course's content by its course-relative path,
// e.g. /courses/42/pages/syllabus. Internal links and module items
// resolve against it.
type ResourceMap map[string]Resource

func pagePath(courseID int64, slug string) string {
	return fmt.Sprintf("/courses/%d/pages/%s", courseID, slug)
}

func idPath(courseID int64, kind string, id int64) string {
	return fmt.Sprintf("/courses/%d/%s/%d", courseID, kind, id)
}

// BuildResourceMap fetches every linkable content item in the course.
// The assignments are passed in because the date checks already fetch
// them.
func BuildResourceMap(ctx context.Context, course CourseContent, assignments []canvas.Assignment) (ResourceMap, error) {
	courseID := course.ID()
	m := make(ResourceMap)

	pages, err := course.Pages(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	for _, p := range pages {
		m[pagePath(courseID, p.URL)] = Resource{"Page", p.Title, p.Published}
	}

	for _, a := range assignments {
		m[idPath(courseID, "assignments", a.ID)] = Resource{"Assignment", a.Name, a.Published}
	}

	discussions, err := course.Discussions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing discussions: %w", err)
	}
	for _, d := range discussions {
		m[idPath(courseID, "discussion_topics", d.ID)] = Resource{"Discussion", d.Title, d.Published}
	}

	quizzes, err := course.Quizzes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing quizzes: %w", err)
	}
	for _, q := range quizzes {
		m[idPath(courseID, "quizzes", q.ID)] = Resource{"Quiz", q.Title, q.Published}
	}

	// The files API has no usable published flag; treat files as
	// published so links to them only fail when the file is gone.
	files, err := course.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	for _, f := range files {
		m[idPath(courseID, "files", f.ID)] = Resource{"File", f.DisplayName, true}
	}

	return m, nil
}

// ContentItem is one published content body to scan for links.
type ContentItem struct {
	Type string
	Name string
	HTML string
}

// CollectContent gathers every published content item with a non-empty
// HTML body.
func CollectContent(ctx context.Context, course CourseContent, assignments []canvas.Assignment) ([]ContentItem, error) {
	var items []ContentItem

	pages, err := course.Pages(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	for _, p := range pages {
		if p.Published && p.Body != "" {
			items = append(items, ContentItem{"Page", p.Title, p.Body})
		}
	}

	for _, a := range assignments {
		if a.Published && a.Description != "" {
			items = append(items, ContentItem{"Assignment", a.Name, a.Description})
		}
	}

	discussions, err := course.Discussions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing discussions: %w", err)
	}
	for _, d := range discussions {
		if d.Published && d.Message != "" {
			items = append(items, ContentItem{"Discussion", d.Title, d.Message})
		}
	}

	quizzes, err := course.Quizzes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing quizzes: %w", err)
	}
	for _, q := range quizzes {
		if q.Published && q.Description != "" {
			items = append(items, ContentItem{"Quiz", q.Title, q.Description})
		}
	}

	return items, nil
}

// modulePath resolves a module item to its resource-map path; ok is
// false for item types that don't reference course content (headers,
// external tools).
func modulePath(courseID int64, item canvas.ModuleItem) (string, bool) {
	switch item.Type {
	case "Page":
		if item.PageURL == "" {
			return "", false
		}
		return pagePath(courseID, item.PageURL), true
	case "Assignment":
		return contentIDPath(courseID, "assignments", item.ContentID)
	case "Discussion":
		return contentIDPath(courseID, "discussion_topics", item.ContentID)
	case "Quiz":
		return contentIDPath(courseID, "quizzes", item.ContentID)
	case "File":
		return contentIDPath(courseID, "files", item.ContentID)
	}
	return "", false
}

func contentIDPath(courseID int64, kind string, contentID int64) (string, bool) {
	if contentID == 0 {
		return "", false
	}
	return idPath(courseID, kind, contentID), true
}
