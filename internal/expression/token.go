package expression

type token interface {
	BeginsPos() int
	EndsPos() int
}

type rangeToken struct {
	beginsPos, endsPos int
}

func (t rangeToken) BeginsPos() int {
	return t.beginsPos
}

func (t rangeToken) EndsPos() int {
	return t.endsPos
}

type numberToken struct {
	rangeToken
	value int64
}

type symbolToken struct {
	rangeToken
	char rune
}

// endToken is terminal: the lexer keeps returning it once reached.
type endToken struct {
	rangeToken
}

func isSymbol(t token, char rune) bool {
	sym, ok := t.(symbolToken)
	return ok && sym.char == char
}
