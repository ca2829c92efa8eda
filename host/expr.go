// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	errExprParse    = errors.New("expression syntax error")
	errDivideByZero = errors.New("division by zero")
)

type resolver interface {
	resolveIdentifier(s string) (int64, error)
}

type binaryOp struct {
	symbol     string
	precedence int
	eval       func(a, b int64) (int64, error)
}

// Binary operators, longest symbols first so "<<" is matched before "<".
var binaryOps = []binaryOp{
	{"<<", 4, func(a, b int64) (int64, error) { return a << uint64(b&63), nil }},
	{">>", 4, func(a, b int64) (int64, error) { return a >> uint64(b&63), nil }},
	{"*", 6, func(a, b int64) (int64, error) { return a * b, nil }},
	{"/", 6, func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivideByZero
		}
		return a / b, nil
	}},
	{"%", 6, func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivideByZero
		}
		return a % b, nil
	}},
	{"+", 5, func(a, b int64) (int64, error) { return a + b, nil }},
	{"-", 5, func(a, b int64) (int64, error) { return a - b, nil }},
	{"&", 3, func(a, b int64) (int64, error) { return a & b, nil }},
	{"^", 2, func(a, b int64) (int64, error) { return a ^ b, nil }},
	{"|", 1, func(a, b int64) (int64, error) { return a | b, nil }},
}

// exprParser evaluates integer expressions typed at the host prompt. It
// understands the usual C operators, $hex, 0x, 0b, %binary and 'c'
// character literals, unary < and > for the low and high byte of a value,
// and identifiers supplied by a resolver.
type exprParser struct {
	hexMode bool
}

func newExprParser() *exprParser {
	return &exprParser{}
}

// exprState is the cursor over a single expression being evaluated.
type exprState struct {
	p   *exprParser
	r   resolver
	s   string
	pos int
}

func (p *exprParser) Parse(expr string, r resolver) (int64, error) {
	e := &exprState{p: p, r: r, s: expr}
	v, err := e.binary(1)
	if err != nil {
		return 0, err
	}
	e.skipWhitespace()
	if e.pos < len(e.s) {
		return 0, e.syntaxError()
	}
	return v, nil
}

func (e *exprState) syntaxError() error {
	return fmt.Errorf("%w at column %d", errExprParse, e.pos+1)
}

func (e *exprState) skipWhitespace() {
	for e.pos < len(e.s) && whitespace(e.s[e.pos]) {
		e.pos++
	}
}

func (e *exprState) peekOp() *binaryOp {
	e.skipWhitespace()
	rest := e.s[e.pos:]
	for i := range binaryOps {
		sym := binaryOps[i].symbol
		if len(rest) >= len(sym) && rest[:len(sym)] == sym {
			return &binaryOps[i]
		}
	}
	return nil
}

// binary evaluates a run of binary operators whose precedence is at least
// minPrec. All binary operators are left-associative.
func (e *exprState) binary(minPrec int) (int64, error) {
	lhs, err := e.unary()
	if err != nil {
		return 0, err
	}

	for {
		op := e.peekOp()
		if op == nil || op.precedence < minPrec {
			return lhs, nil
		}
		e.pos += len(op.symbol)

		rhs, err := e.binary(op.precedence + 1)
		if err != nil {
			return 0, err
		}
		if lhs, err = op.eval(lhs, rhs); err != nil {
			return 0, err
		}
	}
}

func (e *exprState) unary() (int64, error) {
	e.skipWhitespace()
	if e.pos >= len(e.s) {
		return 0, e.syntaxError()
	}

	c := e.s[e.pos]
	switch c {
	case '-', '+', '~', '<', '>':
		e.pos++
		v, err := e.unary()
		if err != nil {
			return 0, err
		}
		switch c {
		case '-':
			return -v, nil
		case '~':
			return ^v, nil
		case '<':
			return v & 0xff, nil
		case '>':
			return (v >> 8) & 0xff, nil
		}
		return v, nil
	}
	return e.primary()
}

func (e *exprState) primary() (int64, error) {
	c := e.s[e.pos]
	switch {
	case c == '(':
		e.pos++
		v, err := e.binary(1)
		if err != nil {
			return 0, err
		}
		e.skipWhitespace()
		if e.pos >= len(e.s) || e.s[e.pos] != ')' {
			return 0, e.syntaxError()
		}
		e.pos++
		return v, nil

	case c == '\'':
		if e.pos+2 >= len(e.s) || e.s[e.pos+2] != '\'' {
			return 0, e.syntaxError()
		}
		v := int64(e.s[e.pos+1])
		e.pos += 3
		return v, nil

	case c == '$':
		e.pos++
		return e.number(16, hexadecimal)

	case c == '%':
		e.pos++
		return e.number(2, binary)

	case c == '0' && e.pos+1 < len(e.s) && (e.s[e.pos+1] == 'x' || e.s[e.pos+1] == 'b'):
		base, fn := 16, hexadecimal
		if e.s[e.pos+1] == 'b' {
			base, fn = 2, binary
		}
		e.pos += 2
		return e.number(base, fn)

	case decimal(c):
		if e.p.hexMode {
			return e.number(16, hexadecimal)
		}
		return e.number(10, decimal)

	case identifier(c):
		return e.identifier()
	}
	return 0, e.syntaxError()
}

func (e *exprState) scanWhile(fn func(c byte) bool) string {
	start := e.pos
	for e.pos < len(e.s) && fn(e.s[e.pos]) {
		e.pos++
	}
	return e.s[start:e.pos]
}

func (e *exprState) number(base int, fn func(c byte) bool) (int64, error) {
	num := e.scanWhile(fn)
	if num == "" {
		return 0, e.syntaxError()
	}
	v, err := strconv.ParseInt(num, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errExprParse, num)
	}
	return v, nil
}

func (e *exprState) identifier() (int64, error) {
	start := e.pos
	id := e.scanWhile(identifier)

	// In hex mode, a word made only of hex digits is a number.
	if e.p.hexMode && isHexWord(id) {
		e.pos = start
		return e.number(16, hexadecimal)
	}
	return e.r.resolveIdentifier(id)
}

func isHexWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if !hexadecimal(s[i]) {
			return false
		}
	}
	return s != ""
}

func whitespace(c byte) bool {
	return c == ' ' || c == '\t'
}

func decimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexadecimal(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func binary(c byte) bool {
	return c == '0' || c == '1'
}

func identifier(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '.'
}
