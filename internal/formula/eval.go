package formula

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrDivisionByZero is returned by Eval when a divisor evaluates to
// zero. Validate tolerates it (real data may avoid the zero); Eval
// surfaces it so the caller can skip that student.
var ErrDivisionByZero = errors.New("division by zero")

// probeValue is the dummy score bound to every variable during
// validation.
const probeValue = 50.0

// funcError marks a failure inside an allowlisted function. Arity is
// checked at parse time, so seeing one during a numeric probe means a
// bug in the function table, not a user mistake.
type funcError struct {
	fn  string
	err error
}

func (e *funcError) Error() string { return fmt.Sprintf("%s: %v", e.fn, e.err) }
func (e *funcError) Unwrap() error { return e.err }

type function struct {
	minArgs int
	maxArgs int // -1 means variadic
	apply   func(args []float64) (float64, error)
}

var functions = map[string]function{
	"min": {minArgs: 2, maxArgs: -1, apply: func(args []float64) (float64, error) {
		m := args[0]
		for _, v := range args[1:] {
			m = math.Min(m, v)
		}
		return m, nil
	}},
	"max": {minArgs: 2, maxArgs: -1, apply: func(args []float64) (float64, error) {
		m := args[0]
		for _, v := range args[1:] {
			m = math.Max(m, v)
		}
		return m, nil
	}},
	"sum": {minArgs: 1, maxArgs: -1, apply: func(args []float64) (float64, error) {
		var s float64
		for _, v := range args {
			s += v
		}
		return s, nil
	}},
	"abs": {minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		return math.Abs(args[0]), nil
	}},
	// round(x) or round(x, ndigits)
	"round": {minArgs: 1, maxArgs: 2, apply: func(args []float64) (float64, error) {
		if len(args) == 1 {
			return math.Round(args[0]), nil
		}
		shift := math.Pow(10, math.Trunc(args[1]))
		if shift == 0 || math.IsInf(shift, 0) {
			return 0, fmt.Errorf("round: bad digit count %v", args[1])
		}
		return math.Round(args[0]*shift) / shift, nil
	}},
}

// checkCall validates a call target and arity at parse time.
func checkCall(name string, argc, pos int) error {
	fn, ok := functions[name]
	if !ok {
		return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(
			"unknown function %q. Available functions: %s",
			name, strings.Join(FunctionNames(), ", "))}
	}
	if argc < fn.minArgs {
		return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(
			"%s expects at least %d argument(s), got %d", name, fn.minArgs, argc)}
	}
	if fn.maxArgs >= 0 && argc > fn.maxArgs {
		return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(
			"%s expects at most %d argument(s), got %d", name, fn.maxArgs, argc)}
	}
	return nil
}

// UnknownNameError reports an identifier that was not bound at
// evaluation time.
type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf(
		"unknown name %q. Assignment variables use _ for spaces and math operators. Available functions: %s",
		e.Name, strings.Join(FunctionNames(), ", "))
}

// env carries evaluation state: the per-call variable bindings and
// nothing else.
type env struct {
	bindings map[string]float64
}

func (e *env) lookup(name string) (float64, error) {
	v, ok := e.bindings[name]
	if !ok {
		return 0, &UnknownNameError{Name: name}
	}
	return v, nil
}

type node interface {
	eval(e *env) (float64, error)
}

type numNode float64

func (n numNode) eval(*env) (float64, error) { return float64(n), nil }

type identNode struct {
	name string
	pos  int
}

func (n *identNode) eval(e *env) (float64, error) { return e.lookup(n.name) }

type unaryNode struct {
	op byte
	x  node
}

func (n *unaryNode) eval(e *env) (float64, error) {
	v, err := n.x.eval(e)
	if err != nil {
		return 0, err
	}
	if n.op == '-' {
		return -v, nil
	}
	return v, nil
}

type binaryNode struct {
	op   byte
	x, y node
}

func (n *binaryNode) eval(e *env) (float64, error) {
	x, err := n.x.eval(e)
	if err != nil {
		return 0, err
	}
	y, err := n.y.eval(e)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return x + y, nil
	case '-':
		return x - y, nil
	case '*':
		return x * y, nil
	case '/':
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return x / y, nil
	}
	return 0, fmt.Errorf("unknown operator %q", n.op)
}

type callNode struct {
	fn   string
	pos  int
	args []node
}

func (n *callNode) eval(e *env) (float64, error) {
	fn, ok := functions[n.fn]
	if !ok {
		// Unreachable: checkCall rejects unknown callees at parse time.
		return 0, &UnknownNameError{Name: n.fn}
	}
	args := make([]float64, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval(e)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	result, err := fn.apply(args)
	if err != nil {
		return 0, &funcError{fn: n.fn, err: err}
	}
	return result, nil
}

// Eval evaluates the formula with the given variable bindings. Any
// unbound identifier, division by zero, or function fault is returned
// as an error; the caller treats those as per-student skip conditions.
func (f *Formula) Eval(bindings map[string]float64) (float64, error) {
	return f.root.eval(&env{bindings: bindings})
}

// Validate parses the formula and test-evaluates it with every variable
// bound to a dummy probe score. It returns nil when the formula is
// usable, or a diagnostic describing the first problem. Division by
// zero during the probe is tolerated; an allowlisted function failing
// on the probe is reported as an internal bug.
func Validate(src string, variables []string) error {
	f, err := Parse(src)
	if err != nil {
		return err
	}

	bindings := make(map[string]float64, len(variables))
	for _, v := range variables {
		bindings[v] = probeValue
	}

	_, err = f.root.eval(&env{bindings: bindings})
	if err != nil {
		if errors.Is(err, ErrDivisionByZero) {
			return nil
		}
		var fe *funcError
		if errors.As(err, &fe) {
			return fmt.Errorf("function %q failed unexpectedly - please report this bug: %w", fe.fn, fe.err)
		}
		return err
	}
	return nil
}
