// Package formula parses and evaluates restricted arithmetic
// expressions over assignment score variables.
//
// The grammar is intentionally tiny to keep evaluation safe on
// untrusted input:
//   - numbers, identifiers, unary +/-, binary + - * /
//   - calls to a fixed allowlist of functions: min, max, sum, abs, round
//
// Identifiers resolve only against the bindings passed to Eval; there
// is no ambient scope, no attribute access, and no statement syntax.
package formula

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SyntaxError reports a parse failure with its byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s at position %d", e.Msg, e.Pos)
}

// Formula is a parsed, immutable expression.
type Formula struct {
	src  string
	root node
}

// Source returns the original formula text.
func (f *Formula) Source() string { return f.src }

// identPattern matches identifier syntax for variable extraction.
var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// ExtractVariables returns the free variable names of a formula:
// identifiers that are not allowlisted function names, in first
// occurrence order, deduplicated. It works on the raw text so callers
// can report "no variables" before spending a parse on a bad formula.
func ExtractVariables(src string) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, name := range identPattern.FindAllString(src, -1) {
		if _, isFunc := functions[name]; isFunc {
			continue
		}
		if !seen[name] {
			seen[name] = true
			vars = append(vars, name)
		}
	}
	return vars
}

// FunctionNames returns the allowlisted function names, sorted.
func FunctionNames() []string {
	fns := make([]string, 0, len(functions))
	for name := range functions {
		fns = append(fns, name)
	}
	sort.Strings(fns)
	return fns
}

// Parse parses a formula into an evaluable expression.
func Parse(src string) (*Formula, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &SyntaxError{Pos: 0, Msg: "empty formula"}
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok.kind)}
	}
	return &Formula{src: src, root: root}, nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tokEOF {
		p.i++
	}
	return tok
}

// parseExpr := term (('+'|'-') term)*
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus, tokMinus:
			op := p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &binaryNode{op: op.text[0], x: left, y: right}
		default:
			return left, nil
		}
	}
}

// parseTerm := unary (('*'|'/') unary)*
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar, tokSlash:
			op := p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &binaryNode{op: op.text[0], x: left, y: right}
		default:
			return left, nil
		}
	}
}

// parseUnary := ('+'|'-') unary | primary
func (p *parser) parseUnary() (node, error) {
	switch p.peek().kind {
	case tokPlus, tokMinus:
		op := p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op.text[0], x: x}, nil
	}
	return p.parsePrimary()
}

// parsePrimary := NUMBER | IDENT | IDENT '(' args ')' | '(' expr ')'
func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return numNode(tok.num), nil

	case tokIdent:
		if p.peek().kind != tokLParen {
			return &identNode{name: tok.text, pos: tok.pos}, nil
		}
		p.next() // consume '('
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if err := checkCall(tok.text, len(args), tok.pos); err != nil {
			return nil, err
		}
		return &callNode{fn: tok.text, pos: tok.pos, args: args}, nil

	case tokLParen:
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: "expected ')'"}
		}
		return x, nil

	case tokEOF:
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unexpected end of formula"}
	}
	return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok.kind)}
}

// parseArgs parses a call argument list up to and including the ')'.
func (p *parser) parseArgs() ([]node, error) {
	if p.peek().kind == tokRParen {
		p.next()
		return nil, nil
	}
	var args []node
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch tok := p.next(); tok.kind {
		case tokComma:
			continue
		case tokRParen:
			return args, nil
		default:
			return nil, &SyntaxError{Pos: tok.pos, Msg: "expected ',' or ')' in argument list"}
		}
	}
}
