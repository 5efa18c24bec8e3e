package watch

import (
	"errors"

	"github.com/ezrec/nemu/translate"
)

var f = translate.From

var (
	ErrPoolExhausted      = errors.New(f("no free watchpoint"))
	ErrExpressionTooLong  = errors.New(f("expression is too long"))
	ErrWatchpointNotFound = errors.New(f("no such watchpoint"))
	ErrNoEvaluator        = errors.New(f("no expression evaluator"))
)

// ErrWatchpointUnknown names an id that is not allocated.
type ErrWatchpointUnknown int

func (err ErrWatchpointUnknown) Error() string {
	return f("no watchpoint at %d", int(err))
}

func (err ErrWatchpointUnknown) Is(target error) bool {
	return target == ErrWatchpointNotFound
}

// ErrSeed reports that a new watchpoint's expression failed its first
// evaluation. The watchpoint is registered regardless.
type ErrSeed struct {
	Id  int
	Err error
}

func (err *ErrSeed) Error() string {
	return f("watchpoint %d: %v", err.Id, err.Err)
}

func (err *ErrSeed) Unwrap() error {
	return err.Err
}
