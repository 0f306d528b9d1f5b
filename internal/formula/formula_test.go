package formula

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"(Quiz_1 + Quiz_2) / 2", []string{"Quiz_1", "Quiz_2"}},
		{"max(Midterm, Final)", []string{"Midterm", "Final"}},
		{"0.3*Homework+0.7*Exam", []string{"Homework", "Exam"}},
		{"min(a, a, b)", []string{"a", "b"}},
		{"sum(abs(x))", []string{"x"}},
		{"1 + 2", nil},
		{"min(1, 2)", nil},
	}
	for _, tt := range tests {
		got := ExtractVariables(tt.src)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractVariables(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		src      string
		bindings map[string]float64
		want     float64
	}{
		{"(Quiz_1 + Quiz_2) / 2", map[string]float64{"Quiz_1": 80, "Quiz_2": 90}, 85},
		{"max(Midterm, Final)", map[string]float64{"Midterm": 70, "Final": 95}, 95},
		{"min(a, b)", map[string]float64{"a": 70, "b": 95}, 70},
		{"0.3*Homework+0.7*Exam", map[string]float64{"Homework": 100, "Exam": 50}, 65},
		{"sum(a, b, c)", map[string]float64{"a": 1, "b": 2, "c": 3}, 6},
		{"abs(a - b)", map[string]float64{"a": 3, "b": 10}, 7},
		{"round(x)", map[string]float64{"x": 84.6}, 85},
		{"round(x, 1)", map[string]float64{"x": 2.25}, 2.3},
		{"-x + 10", map[string]float64{"x": 4}, 6},
		{"--x", map[string]float64{"x": 4}, 4},
		{"2 + 3 * 4", nil, 14},
		{"(2 + 3) * 4", nil, 20},
		{"10 / 4", nil, 2.5},
	}
	for _, tt := range tests {
		f, err := Parse(tt.src)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.src, err)
			continue
		}
		got, err := f.Eval(tt.bindings)
		if err != nil {
			t.Errorf("Eval(%q): %v", tt.src, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Eval(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	f, err := Parse("x / y")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = f.Eval(map[string]float64{"x": 1, "y": 0})
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("err = %v, want ErrDivisionByZero", err)
	}
}

func TestEval_UnboundIdentifier(t *testing.T) {
	f, err := Parse("x + y")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = f.Eval(map[string]float64{"x": 1})
	var unknown *UnknownNameError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownNameError", err)
	}
	if unknown.Name != "y" {
		t.Errorf("unknown name = %q, want y", unknown.Name)
	}
}

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		src  string
		vars []string
	}{
		{"(Quiz_1 + Quiz_2) / 2", []string{"Quiz_1", "Quiz_2"}},
		{"max(Midterm, Final)", []string{"Midterm", "Final"}},
		{"0.3*Homework+0.7*Exam", []string{"Homework", "Exam"}},
		{"round((a+b)/2, 2)", []string{"a", "b"}},
		// Division by zero on the probe is tolerated; real data may avoid it.
		{"a / (b - b)", []string{"a", "b"}},
		{"100 / (x - 50)", []string{"x"}},
	}
	for _, tt := range tests {
		if err := Validate(tt.src, tt.vars); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", tt.src, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		vars []string
	}{
		{"empty", "", nil},
		{"dangling operator", "a +", []string{"a"}},
		{"unbalanced paren", "(a + b", []string{"a", "b"}},
		{"statement syntax", "a = b", []string{"a", "b"}},
		{"attribute access", "a.b", []string{"a"}},
		{"string literal", `a + "x"`, []string{"a"}},
		{"semicolon", "a; b", []string{"a", "b"}},
		{"unknown function", "ceil(a)", []string{"a"}},
		{"abs arity", "abs(a, b)", []string{"a", "b"}},
		{"min arity", "min(a)", []string{"a"}},
		{"name outside bindings", "a + b", []string{"a"}},
		{"call to variable", "a(1)", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.src, tt.vars); err == nil {
				t.Errorf("Validate(%q) = nil, want error", tt.src)
			}
		})
	}
}

func TestValidate_UnknownFunctionNamesAvailable(t *testing.T) {
	err := Validate("ceil(a)", []string{"a"})
	if err == nil {
		t.Fatal("want error")
	}
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("err = %T, want SyntaxError", err)
	}
}

func TestFunctionNames_Sorted(t *testing.T) {
	want := []string{"abs", "max", "min", "round", "sum"}
	if got := FunctionNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("FunctionNames() = %v, want %v", got, want)
	}
}
