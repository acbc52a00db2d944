package expression

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is one of *Literal, *Negation, *Add, *Sub, *Mul or *Div.
// The set is closed: code that switches over nodes handles all six.
type Node interface {
	// Pos is the 1-based source position of the literal or operator.
	Pos() int
	node()
}

type Literal struct {
	Value    int64
	Position int
}

type Negation struct {
	Operand  Node
	Position int
}

// BinaryNode holds the operands shared by the four arithmetic operators.
type BinaryNode struct {
	Left     Node
	Right    Node
	Position int
}

type Add struct{ BinaryNode }
type Sub struct{ BinaryNode }
type Mul struct{ BinaryNode }
type Div struct{ BinaryNode }

func (n *Literal) Pos() int    { return n.Position }
func (n *Negation) Pos() int   { return n.Position }
func (n *BinaryNode) Pos() int { return n.Position }

func (*Literal) node()  {}
func (*Negation) node() {}
func (*Add) node()      {}
func (*Sub) node()      {}
func (*Mul) node()      {}
func (*Div) node()      {}

// newBinary builds the node for operator op; both operands must already be complete.
func newBinary(op rune, left, right Node, pos int) Node {
	bin := BinaryNode{Left: left, Right: right, Position: pos}
	switch op {
	case '+':
		return &Add{bin}
	case '-':
		return &Sub{bin}
	case '*':
		return &Mul{bin}
	case '/':
		return &Div{bin}
	default:
		panic("unknown binary operator: " + string(op))
	}
}

// binaryOf returns the operands and operator symbol of a binary node.
func binaryOf(n Node) (*BinaryNode, byte, bool) {
	switch n := n.(type) {
	case *Add:
		return &n.BinaryNode, '+', true
	case *Sub:
		return &n.BinaryNode, '-', true
	case *Mul:
		return &n.BinaryNode, '*', true
	case *Div:
		return &n.BinaryNode, '/', true
	default:
		return nil, 0, false
	}
}

// leftSpine follows Left operands from n while they are binary nodes.
// spine[0] is n (when binary) and leftmost is the first non-binary operand.
// Walkers loop over the spine instead of recursing once per operator.
func leftSpine(n Node) (spine []*BinaryNode, ops []byte, leftmost Node) {
	for {
		bin, op, ok := binaryOf(n)
		if !ok {
			return spine, ops, n
		}
		spine = append(spine, bin)
		ops = append(ops, op)
		n = bin.Left
	}
}

// height is the number of nodes on the longest root-to-leaf path.
func height(n Node) int {
	spine, _, leftmost := leftSpine(n)

	h := len(spine) + 1
	if neg, ok := leftmost.(*Negation); ok {
		h = len(spine) + 1 + height(neg.Operand)
	}
	for i, bin := range spine {
		if d := i + 1 + height(bin.Right); d > h {
			h = d
		}
	}
	return h
}

// Render returns the tree as an s-expression, e.g. "(+ 1 (* 2 3))".
func Render(n Node) string {
	var b strings.Builder
	render(&b, n)
	return b.String()
}

func render(b *strings.Builder, n Node) {
	spine, ops, leftmost := leftSpine(n)
	for _, op := range ops {
		b.WriteByte('(')
		b.WriteByte(op)
		b.WriteByte(' ')
	}

	switch n := leftmost.(type) {
	case *Literal:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *Negation:
		b.WriteString("(neg ")
		render(b, n.Operand)
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("unknown node type: %T", n))
	}

	for i := len(spine) - 1; i >= 0; i-- {
		b.WriteByte(' ')
		render(b, spine[i].Right)
		b.WriteByte(')')
	}
}
