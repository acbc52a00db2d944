package types

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

type ErrorTag string

const (
	DivisionByZeroErrorTag  ErrorTag = "DivisionByZero"
	EmptyInputErrorTag      ErrorTag = "EmptyInput"
	NumericOverflowErrorTag ErrorTag = "NumericOverflow"
	RecursionErrorTag       ErrorTag = "RecursionError"
	UnexpectedTokenErrorTag ErrorTag = "UnexpectedToken"
)

type Exception interface {
	error
	Exception() any
}

type Error struct {
	Tag   ErrorTag
	Err   error
	Extra map[string]any
}

var _ Exception = (*Error)(nil)

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Position returns the 1-based source position attached to the error, or 0.
func (e *Error) Position() int {
	pos, _ := e.Extra["position"].(int)
	return pos
}

func (e *Error) Exception() any {
	tags := []any{e.Tag}
	for err := errors.Unwrap(error(e)); err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}

	o := map[string]any{
		"tags":    tags,
		"message": e.Error(),
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}

// HasTag reports whether any *Error in err's chain carries tag.
func HasTag(err error, tag ErrorTag) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Tag == tag {
			return true
		}
		err = e.Err
	}
	return false
}
