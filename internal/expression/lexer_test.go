package expression

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/calculator/internal/types"
)

func lexAll(t *testing.T, source string) []any {
	t.Helper()

	lex, err := newLexer(source)
	if err != nil {
		t.Fatal(err)
	}

	var tokens []any
	for !isEnd(lex.current()) {
		switch tok := lex.current().(type) {
		case numberToken:
			tokens = append(tokens, tok.value)
		case symbolToken:
			tokens = append(tokens, tok.char)
		default:
			t.Fatalf("unexpected token type %T", tok)
		}
		if err := lex.advance(); err != nil {
			t.Fatal(err)
		}
	}
	return tokens
}

func TestLexer(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source   string
		expected []any
	}{
		{source: "", expected: nil},
		{source: "   ", expected: nil},
		{source: "1", expected: []any{int64(1)}},
		{source: "512", expected: []any{int64(512)}},
		{source: "1+1", expected: []any{int64(1), '+', int64(1)}},
		{source: "-36", expected: []any{'-', int64(36)}},
		{source: "87/12", expected: []any{int64(87), '/', int64(12)}},
		{source: "(5)", expected: []any{'(', int64(5), ')'}},
		{source: "1456000123000", expected: []any{int64(1456000123000)}},
		{source: "- 2 + 37  *5", expected: []any{'-', int64(2), '+', int64(37), '*', int64(5)}},
		{source: "- (-  27 -( 32-  71))", expected: []any{'-', '(', '-', int64(27), '-', '(', int64(32), '-', int64(71), ')', ')'}},
		{source: "-16- 21 +3* (4/  54)", expected: []any{'-', int64(16), '-', int64(21), '+', int64(3), '*', '(', int64(4), '/', int64(54), ')'}},
		{source: "7 ", expected: []any{int64(7)}},
		{source: "a$ ü", expected: []any{'a', '$', 'ü'}},
		{source: "1\t2", expected: []any{int64(1), '\t', int64(2)}},
		{source: "007", expected: []any{int64(7)}},
		{source: "9223372036854775807", expected: []any{int64(9223372036854775807)}},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.expected, lexAll(t, tt.source)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerEndIsTerminal(t *testing.T) {
	t.Parallel()

	lex, err := newLexer("1")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := lex.advance(); err != nil {
			t.Fatal(err)
		}
		if tok := lex.current(); !isEnd(tok) {
			t.Fatalf("expect end token but got %T", tok)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	t.Parallel()

	lex, err := newLexer(" 12 +  (")
	if err != nil {
		t.Fatal(err)
	}

	var got [][2]int
	for {
		tok := lex.current()
		got = append(got, [2]int{tok.BeginsPos(), tok.EndsPos()})
		if isEnd(tok) {
			break
		}
		if err := lex.advance(); err != nil {
			t.Fatal(err)
		}
	}

	expected := [][2]int{{1, 3}, {4, 5}, {7, 8}, {8, 8}}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerNumericOverflow(t *testing.T) {
	t.Parallel()

	lex, err := newLexer("1 + 9223372036854775808")
	if err != nil {
		t.Fatal(err)
	}
	if err := lex.advance(); err != nil { // "+"
		t.Fatal(err)
	}

	err = lex.advance()
	if !types.HasTag(err, types.NumericOverflowErrorTag) {
		t.Fatalf("expect NumericOverflow but got %v", err)
	}
	if pos := err.(*types.Error).Position(); pos != 5 {
		t.Errorf("expect position 5 but got %d", pos)
	}
}
