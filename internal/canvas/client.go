package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"canvassak/internal/debug"
	"canvassak/internal/telemetry"
)

// Client provides HTTP access to a Canvas instance.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	// PerPage caps page size for list endpoints. Canvas maxes out at 100.
	PerPage int
}

// NewClient creates a Canvas client for the given site URL and access
// token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		PerPage: 100,
	}
}

// nextLinkPattern extracts the rel="next" URL from a Link header.
var nextLinkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// doRequest executes one authenticated request and returns the body and
// the rel="next" pagination URL (empty when this was the last page).
// Transient faults (network errors, 429, 5xx, and Canvas's 403 rate
// limit) are retried with exponential backoff.
func (c *Client) doRequest(ctx context.Context, method, apiURL string, body []byte) ([]byte, string, error) {
	if c.BaseURL == "" {
		return nil, "", fmt.Errorf("canvas URL not configured")
	}
	if c.Token == "" {
		return nil, "", fmt.Errorf("canvas access token not configured")
	}

	var respBody []byte
	var nextURL string

	attempt := func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+c.Token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		telemetry.CountAPIRequest(ctx, method)
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err // retryable
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests,
			resp.StatusCode >= 500:
			return fmt.Errorf("canvas API returned %d", resp.StatusCode)
		case resp.StatusCode == http.StatusForbidden &&
			strings.Contains(string(data), "Rate Limit Exceeded"):
			debug.Logf("canvas rate limit hit, backing off")
			return fmt.Errorf("canvas rate limit exceeded")
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("canvas API returned %d: %s",
				resp.StatusCode, strings.TrimSpace(string(data))))
		}

		respBody = data
		nextURL = ""
		if m := nextLinkPattern.FindStringSubmatch(resp.Header.Get("Link")); m != nil {
			nextURL = m[1]
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = time.Minute
	if err := backoff.Retry(attempt, backoff.WithContext(bo, ctx)); err != nil {
		return nil, "", err
	}
	return respBody, nextURL, nil
}

// getPaginated fetches every page of a list endpoint, decoding each
// page into T and concatenating the results.
func getPaginated[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	if params == nil {
		params = url.Values{}
	}
	perPage := c.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	params.Set("per_page", strconv.Itoa(perPage))

	apiURL := fmt.Sprintf("%s/api/v1/%s?%s", c.BaseURL, path, params.Encode())

	var all []T
	for apiURL != "" {
		body, next, err := c.doRequest(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", path, err)
		}
		var page []T
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parse %s response: %w", path, err)
		}
		all = append(all, page...)
		apiURL = next
	}
	return all, nil
}

// ListCourses lists the courses the token's user can see.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	return getPaginated[Course](ctx, c, "courses", nil)
}

// FindCourses returns courses whose name or course code contains the
// query, case-insensitively. A numeric query also matches a course id
// exactly. With activeOnly, concluded and unpublished courses are
// filtered out.
func (c *Client) FindCourses(ctx context.Context, query string, activeOnly bool) ([]Course, error) {
	courses, err := c.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	id, _ := strconv.ParseInt(query, 10, 64)
	needle := strings.ToLower(query)

	var matched []Course
	for _, course := range courses {
		if activeOnly && !course.Active() {
			continue
		}
		if course.ID == id && id != 0 {
			return []Course{course}, nil
		}
		if strings.Contains(strings.ToLower(course.Name), needle) ||
			strings.Contains(strings.ToLower(course.CourseCode), needle) {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

// ListAssignments lists a course's assignments, optionally including
// per-section overrides.
func (c *Client) ListAssignments(ctx context.Context, courseID int64, includeOverrides bool) ([]Assignment, error) {
	params := url.Values{}
	if includeOverrides {
		params.Add("include[]", "overrides")
	}
	return getPaginated[Assignment](ctx, c, fmt.Sprintf("courses/%d/assignments", courseID), params)
}

// ListAssignmentGroups lists a course's assignment groups.
func (c *Client) ListAssignmentGroups(ctx context.Context, courseID int64) ([]AssignmentGroup, error) {
	return getPaginated[AssignmentGroup](ctx, c, fmt.Sprintf("courses/%d/assignment_groups", courseID), nil)
}

// ListSubmissions lists every submission for an assignment. With
// includeComments, submission comments come along and are sorted by
// creation time so ledger reconstruction sees them in order even if the
// API returns them shuffled.
func (c *Client) ListSubmissions(ctx context.Context, courseID, assignmentID int64, includeComments bool) ([]Submission, error) {
	params := url.Values{}
	if includeComments {
		params.Add("include[]", "submission_comments")
	}
	subs, err := getPaginated[Submission](ctx, c,
		fmt.Sprintf("courses/%d/assignments/%d/submissions", courseID, assignmentID), params)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		sortComments(subs[i].Comments)
	}
	return subs, nil
}

// sortComments orders comments by created_at, oldest first, keeping the
// response order for ties and for comments without a timestamp.
func sortComments(comments []SubmissionComment) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i].CreatedAt, comments[j].CreatedAt
		if a == nil || b == nil {
			return false
		}
		return a.Before(*b)
	})
}

// ListEnrollments lists a course's student enrollments.
func (c *Client) ListEnrollments(ctx context.Context, courseID int64) ([]Enrollment, error) {
	return getPaginated[Enrollment](ctx, c, fmt.Sprintf("courses/%d/enrollments", courseID), nil)
}

// ListSections lists a course's sections.
func (c *Client) ListSections(ctx context.Context, courseID int64) ([]Section, error) {
	return getPaginated[Section](ctx, c, fmt.Sprintf("courses/%d/sections", courseID), nil)
}

// ListPages lists a course's wiki pages, optionally with bodies.
func (c *Client) ListPages(ctx context.Context, courseID int64, includeBody bool) ([]Page, error) {
	params := url.Values{}
	if includeBody {
		params.Add("include[]", "body")
	}
	return getPaginated[Page](ctx, c, fmt.Sprintf("courses/%d/pages", courseID), params)
}

// ListDiscussions lists a course's discussion topics.
func (c *Client) ListDiscussions(ctx context.Context, courseID int64) ([]Discussion, error) {
	return getPaginated[Discussion](ctx, c, fmt.Sprintf("courses/%d/discussion_topics", courseID), nil)
}

// ListQuizzes lists a course's classic quizzes.
func (c *Client) ListQuizzes(ctx context.Context, courseID int64) ([]Quiz, error) {
	return getPaginated[Quiz](ctx, c, fmt.Sprintf("courses/%d/quizzes", courseID), nil)
}

// ListFiles lists a course's files.
func (c *Client) ListFiles(ctx context.Context, courseID int64) ([]File, error) {
	return getPaginated[File](ctx, c, fmt.Sprintf("courses/%d/files", courseID), nil)
}

// ListModules lists a course's modules with their items.
func (c *Client) ListModules(ctx context.Context, courseID int64) ([]Module, error) {
	params := url.Values{}
	params.Add("include[]", "items")
	return getPaginated[Module](ctx, c, fmt.Sprintf("courses/%d/modules", courseID), params)
}

// GradeSubmission posts a grade and a text comment on one student's
// submission.
func (c *Client) GradeSubmission(ctx context.Context, courseID, assignmentID, userID int64, grade float64, comment string) error {
	payload := map[string]any{
		"submission": map[string]any{"posted_grade": grade},
	}
	if comment != "" {
		payload["comment"] = map[string]any{"text_comment": comment}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal grade request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/api/v1/courses/%d/assignments/%d/submissions/%d",
		c.BaseURL, courseID, assignmentID, userID)
	if _, _, err := c.doRequest(ctx, http.MethodPut, apiURL, data); err != nil {
		return fmt.Errorf("grade submission for user %d: %w", userID, err)
	}
	telemetry.CountGradeWrite(ctx)
	return nil
}

// dateFields flattens a DateSet into Canvas API field names.
func dateFields(dates DateSet) map[string]any {
	fields := make(map[string]any)
	if dates.UnlockAt != nil {
		fields["unlock_at"] = dates.UnlockAt.Format(time.RFC3339)
	}
	if dates.DueAt != nil {
		fields["due_at"] = dates.DueAt.Format(time.RFC3339)
	}
	if dates.LockAt != nil {
		fields["lock_at"] = dates.LockAt.Format(time.RFC3339)
	}
	return fields
}

// EditAssignmentDates updates an assignment's base dates.
func (c *Client) EditAssignmentDates(ctx context.Context, courseID, assignmentID int64, dates DateSet) error {
	data, err := json.Marshal(map[string]any{"assignment": dateFields(dates)})
	if err != nil {
		return fmt.Errorf("marshal assignment update: %w", err)
	}
	apiURL := fmt.Sprintf("%s/api/v1/courses/%d/assignments/%d", c.BaseURL, courseID, assignmentID)
	if _, _, err := c.doRequest(ctx, http.MethodPut, apiURL, data); err != nil {
		return fmt.Errorf("update assignment %d: %w", assignmentID, err)
	}
	return nil
}

// CreateOverride creates a section date override on an assignment.
func (c *Client) CreateOverride(ctx context.Context, courseID, assignmentID, sectionID int64, dates DateSet) error {
	fields := dateFields(dates)
	fields["course_section_id"] = sectionID
	data, err := json.Marshal(map[string]any{"assignment_override": fields})
	if err != nil {
		return fmt.Errorf("marshal override: %w", err)
	}
	apiURL := fmt.Sprintf("%s/api/v1/courses/%d/assignments/%d/overrides", c.BaseURL, courseID, assignmentID)
	if _, _, err := c.doRequest(ctx, http.MethodPost, apiURL, data); err != nil {
		return fmt.Errorf("create override on assignment %d: %w", assignmentID, err)
	}
	return nil
}

// UpdateOverride updates an existing section date override.
func (c *Client) UpdateOverride(ctx context.Context, courseID, assignmentID, overrideID int64, dates DateSet) error {
	data, err := json.Marshal(map[string]any{"assignment_override": dateFields(dates)})
	if err != nil {
		return fmt.Errorf("marshal override: %w", err)
	}
	apiURL := fmt.Sprintf("%s/api/v1/courses/%d/assignments/%d/overrides/%d",
		c.BaseURL, courseID, assignmentID, overrideID)
	if _, _, err := c.doRequest(ctx, http.MethodPut, apiURL, data); err != nil {
		return fmt.Errorf("update override %d: %w", overrideID, err)
	}
	return nil
}
