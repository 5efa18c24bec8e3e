package machine

import (
	"errors"

	"github.com/ezrec/nemu/translate"
)

var f = translate.From

var (
	ErrRegisterUnknown = errors.New(f("unknown register"))
	ErrLength          = errors.New(f("access length must be 1, 2 or 4"))
	ErrValue           = errors.New(f("value is not a 32-bit integer"))
)

// ErrAddress is an access outside of memory.
type ErrAddress uint32

func (err ErrAddress) Error() string {
	return f("address 0x%08x is out of bound", uint32(err))
}

// ErrSyntax locates a script line that does not parse.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrRuntime indicates the script line of a failed instruction.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
