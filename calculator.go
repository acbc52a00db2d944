// Package calculator evaluates integer arithmetic expressions such as
// "(2+3)*4" or "-7/2" to an int64.
//
// The grammar is
//
//	sum      := product ( ('+' | '-') product )*
//	product  := unary ( ('*' | '/') unary )*
//	unary    := '-' unary | primary
//	primary  := NUMBER | '(' sum ')'
//
// Operators are left-associative, division truncates toward zero and
// spaces between tokens are ignored. Every failure is returned as an
// *Error whose Tag is one of the ErrorKind constants below.
package calculator

import (
	"fmt"
	"io"
	"strings"

	"github.com/karupanerura/calculator/internal/expression"
	"github.com/karupanerura/calculator/internal/types"
)

type (
	Error     = types.Error
	ErrorKind = types.ErrorTag
	Expr      = expression.Expr
)

const (
	// NumericOverflow: a literal or an intermediate result does not fit in int64.
	NumericOverflow = types.NumericOverflowErrorTag
	// UnexpectedToken: the parser found a token (or the end) it cannot use.
	UnexpectedToken = types.UnexpectedTokenErrorTag
	// EmptyInput: the input holds no tokens at all.
	EmptyInput = types.EmptyInputErrorTag
	// DivisionByZero: the right operand of '/' evaluated to 0.
	DivisionByZero = types.DivisionByZeroErrorTag
	// NestingTooDeep: parentheses or unary minus nest deeper than 10000 levels.
	NestingTooDeep = types.RecursionErrorTag
)

// EvaluateExpression parses and evaluates text.
func EvaluateExpression(text string) (int64, error) {
	expr, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate()
}

// EvaluateReader evaluates the whole content of r as one expression.
// A trailing line break is dropped.
func EvaluateReader(r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("io.ReadAll: %w", err)
	}
	return EvaluateExpression(strings.TrimRight(string(b), "\r\n"))
}

// Parse builds the expression tree without evaluating it.
func Parse(text string) (*Expr, error) {
	return expression.ParseExpr(text)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return types.HasTag(err, kind)
}
