package expression

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/karupanerura/calculator/internal/types"
)

type lexer struct {
	source string
	index  int
	cur    token
}

// newLexer returns a lexer positioned on the first token of source.
func newLexer(source string) (*lexer, error) {
	l := &lexer{source: source}
	if err := l.advance(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *lexer) current() token {
	return l.cur
}

func (l *lexer) advance() error {
	for l.index != len(l.source) && l.source[l.index] == ' ' {
		l.index++ // just skip spaces
	}
	if l.index == len(l.source) {
		l.cur = endToken{rangeToken{beginsPos: l.index, endsPos: l.index}}
		return nil
	}

	begins := l.index
	if c := l.source[l.index]; '0' <= c && c <= '9' {
		for l.index != len(l.source) && '0' <= l.source[l.index] && l.source[l.index] <= '9' {
			l.index++
		}

		digits := l.source[begins:l.index]
		v, err := strconv.ParseInt(digits, 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return &types.Error{
				Tag:   types.NumericOverflowErrorTag,
				Err:   fmt.Errorf("integer literal %s at %d does not fit in int64: expr=%q", digits, begins+1, l.source),
				Extra: map[string]any{"position": begins + 1},
			}
		} else if err != nil {
			panic(fmt.Sprintf("should not reach here: digits=%s: %v", digits, err))
		}

		l.cur = numberToken{rangeToken: rangeToken{beginsPos: begins, endsPos: l.index}, value: v}
		return nil
	}

	r, size := utf8.DecodeRuneInString(l.source[l.index:])
	l.index += size
	l.cur = symbolToken{rangeToken: rangeToken{beginsPos: begins, endsPos: l.index}, char: r}
	return nil
}
