// Package canvas provides a typed REST client for the Canvas LMS API.
//
// Only the slice of the API this tool needs is modeled: courses,
// assignments, submissions, enrollments, sections, and the content
// endpoints the course validator scans.
package canvas

import "time"

// Course is a Canvas course.
type Course struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CourseCode    string `json:"course_code"`
	WorkflowState string `json:"workflow_state"`
}

// Active reports whether the course is available (published and not
// concluded).
func (c Course) Active() bool {
	return c.WorkflowState == "available"
}

// Assignment is a Canvas assignment. PointsPossible is a pointer
// because Canvas returns null for ungraded assignments, and the
// distinction matters when normalizing scores to percentages.
type Assignment struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	PointsPossible    *float64   `json:"points_possible"`
	DueAt             *time.Time `json:"due_at"`
	LockAt            *time.Time `json:"lock_at"`
	UnlockAt          *time.Time `json:"unlock_at"`
	SubmissionTypes   []string   `json:"submission_types"`
	AssignmentGroupID int64      `json:"assignment_group_id"`
	Published         bool       `json:"published"`
	Overrides         []Override `json:"overrides,omitempty"`
}

// Override is a per-section date override on an assignment.
type Override struct {
	ID              int64      `json:"id"`
	CourseSectionID int64      `json:"course_section_id"`
	DueAt           *time.Time `json:"due_at"`
	LockAt          *time.Time `json:"lock_at"`
	UnlockAt        *time.Time `json:"unlock_at"`
}

// AssignmentGroup names a grouping of assignments.
type AssignmentGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Submission is one student's submission for an assignment. Score is
// nil when ungraded.
type Submission struct {
	ID       int64               `json:"id"`
	UserID   int64               `json:"user_id"`
	Score    *float64            `json:"score"`
	Comments []SubmissionComment `json:"submission_comments,omitempty"`
}

// SubmissionComment is a comment on a submission. The change-score
// ledger is persisted as comments of this shape.
type SubmissionComment struct {
	ID         int64      `json:"id"`
	AuthorName string     `json:"author_name"`
	Comment    string     `json:"comment"`
	CreatedAt  *time.Time `json:"created_at"`
}

// Enrollment links a user to a course.
type Enrollment struct {
	UserID int64  `json:"user_id"`
	User   User   `json:"user"`
	Type   string `json:"type"`
}

// User is the embedded user record on an enrollment.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Section is a course section.
type Section struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Page is a wiki page. Pages are addressed by URL slug, not ID.
type Page struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Published bool   `json:"published"`
	Body      string `json:"body,omitempty"`
}

// Discussion is a discussion topic.
type Discussion struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Published bool   `json:"published"`
	Message   string `json:"message,omitempty"`
}

// Quiz is a classic quiz.
type Quiz struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Published   bool   `json:"published"`
	Description string `json:"description,omitempty"`
}

// File is an uploaded course file.
type File struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// Module is a course module with its items.
type Module struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Published bool         `json:"published"`
	Items     []ModuleItem `json:"items,omitempty"`
}

// ModuleItem is one entry in a module. Type is one of Page, Assignment,
// Discussion, Quiz, File, SubHeader, ExternalUrl, ExternalTool; pages
// are referenced by PageURL, everything else by ContentID.
type ModuleItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	ContentID int64  `json:"content_id"`
	PageURL   string `json:"page_url,omitempty"`
}

// DateSet carries the three assignment dates a dates file can set.
// Nil fields are left untouched on update.
type DateSet struct {
	UnlockAt *time.Time
	DueAt    *time.Time
	LockAt   *time.Time
}

// Empty reports whether no dates are set.
func (d DateSet) Empty() bool {
	return d.UnlockAt == nil && d.DueAt == nil && d.LockAt == nil
}
