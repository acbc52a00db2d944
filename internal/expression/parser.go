package expression

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/calculator/internal/types"
)

// DefaultMaxDepth bounds the nesting of parentheses and unary minus.
// Parsing and evaluation recurse once per level; operator chains are
// walked iteratively and do not count.
const DefaultMaxDepth = 10000

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("CALCULATOR_EXPRESSION_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type parser struct {
	source   string
	debug    bool
	maxDepth int

	lex   *lexer
	depth int
}

func ParseExpr(source string) (*Expr, error) {
	p := &parser{source: source, debug: parserDebugLog, maxDepth: DefaultMaxDepth}
	return p.parse()
}

func ParseExprWithDebugOutput(source string) (*Expr, error) {
	p := &parser{source: source, debug: true, maxDepth: DefaultMaxDepth}
	return p.parse()
}

// ParseExprWithMaxDepth is ParseExpr with a custom nesting limit.
func ParseExprWithMaxDepth(source string, maxDepth int) (*Expr, error) {
	p := &parser{source: source, debug: parserDebugLog, maxDepth: maxDepth}
	return p.parse()
}

func (p *parser) parse() (*Expr, error) {
	lex, err := newLexer(p.source)
	if err != nil {
		return nil, err
	}
	p.lex = lex

	if isEnd(lex.current()) {
		return nil, &types.Error{
			Tag: types.EmptyInputErrorTag,
			Err: fmt.Errorf("empty expression is not allowed: expr=%q", p.source),
		}
	}

	root, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if tok := lex.current(); !isEnd(tok) {
		if p.debug {
			log.Println("not consumed token: ", p.describeToken(tok))
		}
		return nil, p.createUnexpectedTokenError(tok, "end of expression")
	}

	if p.debug {
		pp.Println(p.source)
		if h := height(root); h <= p.maxDepth {
			pp.Println(root)
		} else {
			log.Printf("tree height %d exceeds %d, dumping the rendered form only", h, p.maxDepth)
		}
		log.Println(Render(root))
	}

	return &Expr{
		Source: p.source,
		root:   root,
	}, nil
}

// sum := product ( ('+' | '-') product )*
func (p *parser) parseSum() (Node, error) {
	return p.parseLeftAssociative("+-", p.parseProduct)
}

// product := unary ( ('*' | '/') unary )*
func (p *parser) parseProduct() (Node, error) {
	return p.parseLeftAssociative("*/", p.parseUnary)
}

func (p *parser) parseLeftAssociative(operators string, parseOperand func() (Node, error)) (Node, error) {
	left, err := parseOperand()
	if err != nil {
		return nil, err
	}

	for {
		sym, isSym := p.lex.current().(symbolToken)
		if !isSym || !strings.ContainsRune(operators, sym.char) {
			// End, ')' or an operator of a lower level: the caller decides.
			return left, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}

		right, err := parseOperand()
		if err != nil {
			return nil, err
		}
		left = newBinary(sym.char, left, right, sym.BeginsPos()+1)
	}
}

// unary := '-' unary | primary
func (p *parser) parseUnary() (Node, error) {
	tok := p.lex.current()
	if !isSymbol(tok, '-') {
		return p.parsePrimary()
	}

	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.next(); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Negation{Operand: operand, Position: tok.BeginsPos() + 1}, nil
}

// primary := NUMBER | '(' sum ')'
func (p *parser) parsePrimary() (Node, error) {
	switch tok := p.lex.current().(type) {
	case numberToken:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Literal{Value: tok.value, Position: tok.BeginsPos() + 1}, nil

	case symbolToken:
		if tok.char != '(' {
			break
		}

		if err := p.enter(tok); err != nil {
			return nil, err
		}
		defer p.leave()

		if err := p.next(); err != nil {
			return nil, err
		}
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}

		if closing := p.lex.current(); !isSymbol(closing, ')') {
			return nil, p.createUnexpectedTokenError(closing, `")"`)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		return inner, nil
	}

	return nil, p.createUnexpectedTokenError(p.lex.current(), `number or "("`)
}

func (p *parser) next() error {
	if p.debug {
		log.Println("token: ", p.describeToken(p.lex.current()))
	}
	return p.lex.advance()
}

func (p *parser) enter(t token) error {
	p.depth++
	if p.depth > p.maxDepth {
		pos := t.BeginsPos() + 1
		return &types.Error{
			Tag:   types.RecursionErrorTag,
			Err:   fmt.Errorf("nesting deeper than %d at %d: expr=%q", p.maxDepth, pos, p.source),
			Extra: map[string]any{"position": pos},
		}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) extractLiteralString(t token) string {
	return p.source[t.BeginsPos():t.EndsPos()]
}

func (p *parser) describeToken(t token) string {
	if isEnd(t) {
		return "end of expression"
	}
	return strconv.Quote(p.extractLiteralString(t))
}

func (p *parser) createUnexpectedTokenError(t token, expected string) error {
	pos := t.BeginsPos() + 1
	return &types.Error{
		Tag:   types.UnexpectedTokenErrorTag,
		Err:   fmt.Errorf("unexpected %s at %d, expected %s: expr=%q", p.describeToken(t), pos, expected, p.source),
		Extra: map[string]any{"position": pos},
	}
}

func isEnd(t token) bool {
	_, ok := t.(endToken)
	return ok
}
