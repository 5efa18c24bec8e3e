package expr

import (
	"errors"

	"github.com/ezrec/nemu/translate"
)

var f = translate.From

var (
	// Syntax errors
	ErrNeedOperand     = errors.New(f("need operand"))
	ErrParenUnmatched  = errors.New(f("parentheses unmatched"))
	ErrRegisterUnknown = errors.New(f("unknown register"))
	ErrNoDominant      = errors.New(f("no dominant operator"))
	ErrSingleToken     = errors.New(f("single token, need a number or register"))
	ErrUnaryOperand    = errors.New(f("operand before unary operator"))
	ErrNumberRange     = errors.New(f("number out of range"))

	// Evaluation errors
	ErrDivisionByZero = errors.New(f("division by zero"))
	ErrTokenOverflow  = errors.New(f("too many tokens"))
	ErrNoMachine      = errors.New(f("no machine attached"))
)

// ErrLex reports the offset where no lexical rule matched.
type ErrLex struct {
	Offset int
	Text   string
}

func (err *ErrLex) Error() string {
	return f("no match at position %d in '%v'", err.Offset, err.Text)
}

// ErrOperandTooLong is a number or register lexeme over OPERAND_LIMIT bytes.
type ErrOperandTooLong string

func (err ErrOperandTooLong) Error() string {
	return f("operand '%v' is too long", string(err))
}

// ErrSyntax locates a syntax error at a token.
type ErrSyntax struct {
	Token  string
	Offset int
	Err    error
}

func (err *ErrSyntax) Error() string {
	if len(err.Token) == 0 {
		return f("syntax error at end of expression: %v", err.Err)
	}
	return f("syntax error at '%v' (position %d): %v", err.Token, err.Offset, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
