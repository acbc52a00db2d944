package calculator_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/karupanerura/calculator"
)

func TestEvaluateExpression(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source   string
		expected int64
	}{
		{source: "10 / 5", expected: 2},
		{source: "10-3-2", expected: 5},
		{source: "2+3*4", expected: 14},
		{source: "(2+3)*4", expected: 20},
		{source: "--5", expected: 5},
		{source: "-(-5)", expected: 5},
		{source: "7/2", expected: 3},
		{source: "-7/2", expected: -3},
		{source: "2*(1+2*(3*4+105*431)*2+((2*3)*10+343))", expected: 362944},
		{source: "-1- -2-(-(-(0-2-3-4-5+ -2-(3))+1)-3-2     -19) * 17239 * 82473842", expected: 62557728738473},
		{source: "19 + 2 / 3 + (1 + 1 + 394) / 7 / 2 / 1", expected: 47},
		{source: "(-300 + 22) / (65 - -12)", expected: -3},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			ret, err := calculator.EvaluateExpression(tt.source)
			if err != nil {
				t.Fatal(err)
			}
			if ret != tt.expected {
				t.Errorf("expect to %d but got %d", tt.expected, ret)
			}
		})
	}
}

func TestEvaluateExpressionLiteralRoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []int64{0, 1, 7, 10, 4096, 1 << 31, 1<<62 + 12345, 9223372036854775807} {
		ret, err := calculator.EvaluateExpression(strconv.FormatInt(n, 10))
		if err != nil {
			t.Fatal(err)
		}
		if ret != n {
			t.Errorf("expect to %d but got %d", n, ret)
		}
	}
}

func TestEvaluateExpressionErrors(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source string
		kind   calculator.ErrorKind
	}{
		{source: "", kind: calculator.EmptyInput},
		{source: "(", kind: calculator.UnexpectedToken},
		{source: "1+", kind: calculator.UnexpectedToken},
		{source: "1/0", kind: calculator.DivisionByZero},
		{source: "92233720368547758070", kind: calculator.NumericOverflow},
		{source: strings.Repeat("(", 10001) + "1" + strings.Repeat(")", 10001), kind: calculator.NestingTooDeep},
	} {
		tt := tt
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()

			ret, err := calculator.EvaluateExpression(tt.source)
			if err == nil {
				t.Fatalf("should be error but got %d", ret)
			}
			if !calculator.IsKind(err, tt.kind) {
				t.Errorf("expect %s but got %v", tt.kind, err)
			}

			var e *calculator.Error
			if !errors.As(err, &e) || e.Tag != tt.kind {
				t.Errorf("expect *calculator.Error tagged %s but got %#v", tt.kind, err)
			}
		})
	}
}

func TestEvaluateReader(t *testing.T) {
	t.Parallel()

	ret, err := calculator.EvaluateReader(strings.NewReader("(2+3)*4\n"))
	if err != nil {
		t.Fatal(err)
	}
	if ret != 20 {
		t.Errorf("expect to 20 but got %d", ret)
	}

	readErr := errors.New("broken pipe")
	if _, err := calculator.EvaluateReader(iotest.ErrReader(readErr)); !errors.Is(err, readErr) {
		t.Errorf("expect read error but got %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	expr, err := calculator.Parse("1 + 2 * 3")
	if err != nil {
		t.Fatal(err)
	}
	if got := expr.Tree(); got != "(+ 1 (* 2 3))" {
		t.Errorf("unexpected tree: %s", got)
	}

	for i := 0; i < 2; i++ {
		ret, err := expr.Evaluate()
		if err != nil {
			t.Fatal(err)
		}
		if ret != 7 {
			t.Errorf("expect to 7 but got %d", ret)
		}
	}
}
