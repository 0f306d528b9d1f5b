package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "test-token")
	return client, srv
}

func TestListAssignments_Pagination(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/7/assignments", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		page := r.URL.Query().Get("page")
		if page == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses/7/assignments?page=2>; rel="next"`, srv.URL))
			fmt.Fprint(w, `[{"id": 1, "name": "Quiz 1"}]`)
			return
		}
		fmt.Fprint(w, `[{"id": 2, "name": "Quiz 2"}]`)
	})
	client, s := newTestClient(t, mux)
	srv = s

	assignments, err := client.ListAssignments(context.Background(), 7, false)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "Quiz 1", assignments[0].Name)
	assert.Equal(t, "Quiz 2", assignments[1].Name)
}

func TestDoRequest_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `[{"id": 9, "name": "CS 101", "workflow_state": "available"}]`)
	})
	client, _ := newTestClient(t, mux)

	courses, err := client.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 3, attempts)
}

func TestDoRequest_PermanentOn404(t *testing.T) {
	attempts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"errors":[{"message":"not found"}]}`, http.StatusNotFound)
	})
	client, _ := newTestClient(t, mux)

	_, err := client.ListCourses(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "4xx responses must not be retried")
}

func TestListSubmissions_SortsCommentsByCreation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/7/assignments/3/submissions", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query()["include[]"], "submission_comments")
		fmt.Fprint(w, `[{
			"id": 1, "user_id": 42, "score": 95,
			"submission_comments": [
				{"id": 2, "comment": "second", "created_at": "2024-02-01T00:00:00Z"},
				{"id": 1, "comment": "first", "created_at": "2024-01-01T00:00:00Z"}
			]
		}]`)
	})
	client, _ := newTestClient(t, mux)

	subs, err := client.ListSubmissions(context.Background(), 7, 3, true)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Len(t, subs[0].Comments, 2)
	assert.Equal(t, "first", subs[0].Comments[0].Comment)
	assert.Equal(t, "second", subs[0].Comments[1].Comment)
}

func TestGradeSubmission_Payload(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/7/assignments/3/submissions/42", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{}`)
	})
	client, _ := newTestClient(t, mux)

	err := client.GradeSubmission(context.Background(), 7, 3, 42, 85.5,
		"change-score previous: 80 new: 85.5")
	require.NoError(t, err)

	submission := got["submission"].(map[string]any)
	assert.Equal(t, 85.5, submission["posted_grade"])
	comment := got["comment"].(map[string]any)
	assert.Equal(t, "change-score previous: 80 new: 85.5", comment["text_comment"])
}

func TestFindCourses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 1, "name": "CS 146 Data Structures", "course_code": "CS146", "workflow_state": "available"},
			{"id": 2, "name": "CS 146 (old)", "course_code": "CS146-OLD", "workflow_state": "completed"},
			{"id": 3, "name": "Basket Weaving", "course_code": "BW1", "workflow_state": "available"}
		]`)
	})
	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	active, err := client.FindCourses(ctx, "cs 146", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].ID)

	all, err := client.FindCourses(ctx, "cs 146", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byID, err := client.FindCourses(ctx, "3", false)
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "Basket Weaving", byID[0].Name)
}
