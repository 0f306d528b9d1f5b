package names

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Quiz 1", "Quiz_1"},
		{"Quiz-1", "Quiz_1"},
		{"Quiz - 1", "Quiz_1"},
		{"Quiz   1", "Quiz_1"},
		{"Quiz_1", "Quiz_1"},
		{"Pass/Fail", "Pass_Fail"},
		{"Bonus * 2", "Bonus_2"},
		{"A - B + C", "A_B_C"},
		{"C++", "C"},
		{"Midterm", "Midterm"},
		{"", ""},
		{" + - ", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Quiz - 1", "A +B", "  x  ", "already_normal", "C++"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestResolve_SingleSubstringMatch(t *testing.T) {
	assignments := []Ref{
		{ID: 1, Title: "Quiz - 1"},
		{ID: 2, Title: "Midterm Exam"},
	}
	got, err := Resolve("Quiz_1", assignments)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("resolved ID = %d, want 1", got.ID)
	}
}

func TestResolve_ExactMatchBeatsSubstring(t *testing.T) {
	assignments := []Ref{
		{ID: 10, Title: "Quiz 10"},
		{ID: 1, Title: "Quiz 1"},
	}
	got, err := Resolve("Quiz_1", assignments)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("resolved ID = %d, want exact match 1", got.ID)
	}
}

func TestResolve_NotFound(t *testing.T) {
	assignments := []Ref{{ID: 1, Title: "Final"}}
	_, err := Resolve("Quiz_1", assignments)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.Variable != "Quiz_1" || len(nf.Available) != 1 {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestResolve_Ambiguous(t *testing.T) {
	assignments := []Ref{
		{ID: 10, Title: "Quiz 10"},
		{ID: 11, Title: "Quiz 11"},
	}
	_, err := Resolve("Quiz_1", assignments)
	var amb *AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("err = %v, want AmbiguousError", err)
	}
	// Candidate order must follow source iteration order.
	if amb.Candidates[0].ID != 10 || amb.Candidates[1].ID != 11 {
		t.Errorf("candidate order = %v", amb.Candidates)
	}
}

func TestResolve_PartialVariableMatchesLongerTitle(t *testing.T) {
	assignments := []Ref{{ID: 5, Title: "Weekly Homework 3"}}
	got, err := Resolve("Homework_3", assignments)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != 5 {
		t.Errorf("resolved ID = %d, want 5", got.ID)
	}
}
