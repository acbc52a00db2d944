package expression

type Expr struct {
	Source string
	root   Node
}

// NewExpr wraps a tree that was built without the parser.
func NewExpr(source string, root Node) *Expr {
	return &Expr{Source: source, root: root}
}

func (e *Expr) Root() Node {
	return e.root
}

func (e *Expr) String() string {
	return e.Source
}

// Tree returns the s-expression rendering of the parsed tree.
func (e *Expr) Tree() string {
	return Render(e.root)
}
