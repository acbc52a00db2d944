package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/karupanerura/calculator/internal/expression"
	"github.com/karupanerura/calculator/internal/types"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Batch struct {
	// Concurrency limits parallel evaluations; 0 means runtime.NumCPU().
	Concurrency int
	Entries     []Entry
}

type Entry struct {
	Name   string
	Source string
	Expect *int64
}

type Result struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Result     *int64 `json:"result,omitempty"`
	Error      any    `json:"error,omitempty"`
	Expect     *int64 `json:"expect,omitempty"`
	Passed     bool   `json:"passed"`

	err error
}

func (r *Result) Err() error {
	return r.err
}

// Execute evaluates every entry and returns the results in entry order.
// Evaluation failures are recorded in the results; the returned error is
// only set when ctx is done before all entries ran.
func (b *Batch) Execute(ctx context.Context) ([]*Result, error) {
	limit := b.Concurrency
	if limit == 0 {
		limit = runtime.NumCPU()
	}

	results := make([]*Result, len(b.Entries))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, entry := range b.Entries {
		i := i
		entry := entry
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", entry.Name, err)
			}
			results[i] = entry.evaluate()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (e *Entry) evaluate() *Result {
	r := &Result{
		Name:       e.Name,
		Expression: e.Source,
		Expect:     e.Expect,
	}

	expr, err := expression.ParseExpr(e.Source)
	if err == nil {
		var v int64
		v, err = expr.Evaluate()
		if err == nil {
			r.Result = &v
		}
	}
	if err != nil {
		r.err = err
		r.Error = exception(err)
		return r
	}

	r.Passed = e.Expect == nil || *e.Expect == *r.Result
	if !r.Passed {
		r.err = fmt.Errorf("expect %d but got %d", *e.Expect, *r.Result)
		r.Error = r.err.Error()
	}
	return r
}

// Failed returns the results that did not pass.
func Failed(results []*Result) []*Result {
	return lo.Filter(results, func(r *Result, _ int) bool {
		return !r.Passed
	})
}

func exception(err error) any {
	var exception types.Exception
	if errors.As(err, &exception) {
		return exception.Exception()
	}
	return err.Error()
}
