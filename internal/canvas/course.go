package canvas

import "context"

// CourseSession scopes a client to one course. It satisfies the small
// interfaces the derive and validate packages consume, so those
// packages can be tested against in-memory fakes.
type CourseSession struct {
	Client *Client
	Course Course
}

// NewCourseSession wraps a client and course.
func NewCourseSession(client *Client, course Course) *CourseSession {
	return &CourseSession{Client: client, Course: course}
}

// ID returns the course id.
func (s *CourseSession) ID() int64 { return s.Course.ID }

// Assignments lists the course's assignments without overrides.
func (s *CourseSession) Assignments(ctx context.Context) ([]Assignment, error) {
	return s.Client.ListAssignments(ctx, s.Course.ID, false)
}

// AssignmentsWithOverrides lists the course's assignments including
// per-section overrides.
func (s *CourseSession) AssignmentsWithOverrides(ctx context.Context) ([]Assignment, error) {
	return s.Client.ListAssignments(ctx, s.Course.ID, true)
}

// AssignmentGroups maps group id to group name.
func (s *CourseSession) AssignmentGroups(ctx context.Context) (map[int64]string, error) {
	groups, err := s.Client.ListAssignmentGroups(ctx, s.Course.ID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names, nil
}

// Submissions lists every submission for one assignment.
func (s *CourseSession) Submissions(ctx context.Context, assignmentID int64, includeComments bool) ([]Submission, error) {
	return s.Client.ListSubmissions(ctx, s.Course.ID, assignmentID, includeComments)
}

// Enrollments lists the course's enrollments.
func (s *CourseSession) Enrollments(ctx context.Context) ([]Enrollment, error) {
	return s.Client.ListEnrollments(ctx, s.Course.ID)
}

// Sections lists the course's sections.
func (s *CourseSession) Sections(ctx context.Context) ([]Section, error) {
	return s.Client.ListSections(ctx, s.Course.ID)
}

// Pages lists the course's wiki pages.
func (s *CourseSession) Pages(ctx context.Context, includeBody bool) ([]Page, error) {
	return s.Client.ListPages(ctx, s.Course.ID, includeBody)
}

// Discussions lists the course's discussion topics.
func (s *CourseSession) Discussions(ctx context.Context) ([]Discussion, error) {
	return s.Client.ListDiscussions(ctx, s.Course.ID)
}

// Quizzes lists the course's quizzes.
func (s *CourseSession) Quizzes(ctx context.Context) ([]Quiz, error) {
	return s.Client.ListQuizzes(ctx, s.Course.ID)
}

// Files lists the course's files.
func (s *CourseSession) Files(ctx context.Context) ([]File, error) {
	return s.Client.ListFiles(ctx, s.Course.ID)
}

// Modules lists the course's modules with items.
func (s *CourseSession) Modules(ctx context.Context) ([]Module, error) {
	return s.Client.ListModules(ctx, s.Course.ID)
}

// GradeSubmission posts a grade and comment for one student.
func (s *CourseSession) GradeSubmission(ctx context.Context, assignmentID, userID int64, grade float64, comment string) error {
	return s.Client.GradeSubmission(ctx, s.Course.ID, assignmentID, userID, grade, comment)
}

// EditAssignmentDates updates an assignment's base dates.
func (s *CourseSession) EditAssignmentDates(ctx context.Context, assignmentID int64, dates DateSet) error {
	return s.Client.EditAssignmentDates(ctx, s.Course.ID, assignmentID, dates)
}

// CreateOverride creates a section date override.
func (s *CourseSession) CreateOverride(ctx context.Context, assignmentID, sectionID int64, dates DateSet) error {
	return s.Client.CreateOverride(ctx, s.Course.ID, assignmentID, sectionID, dates)
}

// UpdateOverride updates an existing section date override.
func (s *CourseSession) UpdateOverride(ctx context.Context, assignmentID, overrideID int64, dates DateSet) error {
	return s.Client.UpdateOverride(ctx, s.Course.ID, assignmentID, overrideID, dates)
}
