package monitor

import (
	"errors"

	"github.com/ezrec/nemu/translate"
)

var f = translate.From

var (
	ErrProgramEnded = errors.New(f("the program has ended"))
	ErrNoExpression = errors.New(f("missing expression"))
)

// ErrUsage is an argument error, carrying the command's usage line.
type ErrUsage string

func (err ErrUsage) Error() string {
	return f("invalid argument, usage: %v", string(err))
}

// ErrCommandUnknown names a command not in the command table, and the
// closest known command, if any.
type ErrCommandUnknown struct {
	Name       string
	Suggestion string
}

func (err *ErrCommandUnknown) Error() string {
	if len(err.Suggestion) == 0 {
		return f("Unknown command '%v'", err.Name)
	}
	return f("Unknown command '%v', did you mean '%v'?", err.Name, err.Suggestion)
}
