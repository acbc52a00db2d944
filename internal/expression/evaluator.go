package expression

import (
	"fmt"
	"math"

	"github.com/karupanerura/calculator/internal/types"
)

// Evaluate folds the tree of expr into a single value. Operands are
// evaluated left before right; the first error wins.
func Evaluate(expr *Expr) (int64, error) {
	ev := evaluator{source: expr.Source}
	return ev.evaluate(expr.root)
}

func (e *Expr) Evaluate() (int64, error) {
	return Evaluate(e)
}

type evaluator struct {
	source string
}

func (ev *evaluator) evaluate(n Node) (int64, error) {
	spine, ops, leftmost := leftSpine(n)

	acc, err := ev.evaluateUnary(leftmost)
	if err != nil {
		return 0, err
	}
	for i := len(spine) - 1; i >= 0; i-- {
		right, err := ev.evaluate(spine[i].Right)
		if err != nil {
			return 0, err
		}
		if acc, err = ev.apply(ops[i], spine[i].Pos(), acc, right); err != nil {
			return 0, err
		}
	}
	return acc, nil
}

func (ev *evaluator) evaluateUnary(n Node) (int64, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil

	case *Negation:
		v, err := ev.evaluate(n.Operand)
		if err != nil {
			return 0, err
		}
		if v == math.MinInt64 {
			return 0, ev.overflowError(n.Pos(), "-(%d)", v)
		}
		return -v, nil

	default:
		panic(fmt.Sprintf("unknown node type: %T", n))
	}
}

func (ev *evaluator) apply(op byte, pos int, left, right int64) (int64, error) {
	switch op {
	case '+':
		sum := left + right
		if (left^sum)&(right^sum) < 0 {
			return 0, ev.overflowError(pos, "%d + %d", left, right)
		}
		return sum, nil

	case '-':
		diff := left - right
		if (left^right)&(left^diff) < 0 {
			return 0, ev.overflowError(pos, "%d - %d", left, right)
		}
		return diff, nil

	case '*':
		if left == 0 || right == 0 {
			return 0, nil
		}
		product := left * right
		if product/right != left || (left == -1 && right == math.MinInt64) || (right == -1 && left == math.MinInt64) {
			return 0, ev.overflowError(pos, "%d * %d", left, right)
		}
		return product, nil

	case '/':
		if right == 0 {
			return 0, &types.Error{
				Tag:   types.DivisionByZeroErrorTag,
				Err:   fmt.Errorf("%d / 0 at %d: expr=%q", left, pos, ev.source),
				Extra: map[string]any{"position": pos},
			}
		}
		if left == math.MinInt64 && right == -1 {
			return 0, ev.overflowError(pos, "%d / %d", left, right)
		}
		// Go's integer division truncates toward zero.
		return left / right, nil

	default:
		panic(fmt.Sprintf("unknown binary operator: %c", op))
	}
}

func (ev *evaluator) overflowError(pos int, format string, args ...any) error {
	return &types.Error{
		Tag:   types.NumericOverflowErrorTag,
		Err:   fmt.Errorf("%s overflows int64 at %d: expr=%q", fmt.Sprintf(format, args...), pos, ev.source),
		Extra: map[string]any{"position": pos},
	}
}
