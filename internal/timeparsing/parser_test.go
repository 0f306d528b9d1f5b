package timeparsing

import (
	"testing"
	"time"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestParse_CanonicalLayout(t *testing.T) {
	got, err := Parse("2024-01-22-23:59", now)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := time.Date(2024, 1, 22, 23, 59, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestParseCompactDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"+6h", now.Add(6 * time.Hour)},
		{"-1d", now.AddDate(0, 0, -1)},
		{"+2w", now.AddDate(0, 0, 14)},
		{"3m", now.AddDate(0, 3, 0)},
		{"1y", now.AddDate(1, 0, 0)},
	}
	for _, tt := range tests {
		got, err := ParseCompactDuration(tt.in, now)
		if err != nil {
			t.Errorf("ParseCompactDuration(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseCompactDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCompactDuration_Rejects(t *testing.T) {
	for _, in := range []string{"", "6", "h", "6 h", "+6x", "1.5d"} {
		if _, err := ParseCompactDuration(in, now); err == nil {
			t.Errorf("ParseCompactDuration(%q) = nil error, want failure", in)
		}
	}
}

func TestIsCompactDuration(t *testing.T) {
	if !IsCompactDuration("+1w") {
		t.Error("IsCompactDuration(+1w) = false")
	}
	if IsCompactDuration("2024-01-22-23:59") {
		t.Error("IsCompactDuration(date) = true")
	}
}

func TestParse_CompactDuration(t *testing.T) {
	got, err := Parse("+2w", now)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := now.AddDate(0, 0, 14); !got.Equal(want) {
		t.Errorf("Parse(+2w) = %v, want %v", got, want)
	}
}

func TestParse_NaturalLanguage(t *testing.T) {
	got, err := Parse("tomorrow", now)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Day() != now.AddDate(0, 0, 1).Day() {
		t.Errorf("Parse(tomorrow) = %v", got)
	}
}

func TestParse_Unrecognized(t *testing.T) {
	if _, err := Parse("not a date at all xyzzy", now); err == nil {
		t.Error("Parse on garbage = nil error, want failure")
	}
}
