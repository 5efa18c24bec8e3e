// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package expr

import (
	"log"
	"slices"
	"strconv"
	"strings"
)

// Accessor is the read-only view of machine state used by register and
// dereference operands.
type Accessor interface {
	// ReadRegister returns the named register of the given width (8, 16
	// or 32), zero-extended. Unknown names fail.
	ReadRegister(name string, width int) (value uint32, err error)
	// ReadInstructionPointer returns the instruction pointer.
	ReadInstructionPointer() uint32
	// ReadMemory returns length bytes at address as a little-endian word.
	ReadMemory(address uint32, length int) (value uint32, err error)
}

// registerWidths is the lookup order for register names.
var registerWidths = []int{32, 16, 8}

// Evaluator evaluates expressions against a machine.
type Evaluator struct {
	Verbose  bool     // If set, logs tokenizing and every split.
	Accessor Accessor // Machine state for registers and memory.
}

// Eval tokenizes and evaluates text.
func (ev *Evaluator) Eval(text string) (value uint32, err error) {
	lex := &Lexer{Verbose: ev.Verbose}
	tokens, err := lex.Tokenize(text)
	if err != nil {
		return
	}

	return ev.Evaluate(tokens)
}

// Evaluate evaluates a token sequence. The caller's slice is not modified.
func (ev *Evaluator) Evaluate(tokens []Token) (value uint32, err error) {
	tokens = classifyUnary(slices.Clone(tokens))

	return ev.eval(tokens, 0, len(tokens)-1)
}

// classifyUnary rewrites '*' and '-' to dereference and negation when they
// start the expression or follow anything other than an operand or ')'.
func classifyUnary(tokens []Token) []Token {
	for n := range tokens {
		tok := &tokens[n]
		if tok.Kind != TOKEN_STAR && tok.Kind != TOKEN_MINUS {
			continue
		}
		if n > 0 {
			prev := tokens[n-1].Kind
			if prev == TOKEN_RPAREN || prev.IsOperand() {
				continue
			}
		}
		if tok.Kind == TOKEN_STAR {
			tok.Kind = TOKEN_DEREF
		} else {
			tok.Kind = TOKEN_NEGATE
		}
		tok.Precedence = PREC_UNARY
	}

	return tokens
}

// syntaxError locates err at token n, or at the end of the expression.
func syntaxError(tokens []Token, n int, err error) error {
	if n < 0 || n >= len(tokens) {
		return &ErrSyntax{Err: err}
	}

	return &ErrSyntax{Token: tokens[n].Lexeme, Offset: tokens[n].Offset, Err: err}
}

// surrounded returns true if tokens[p] and tokens[q] are a matched pair
// of parentheses enclosing the whole range.
func surrounded(tokens []Token, p, q int) bool {
	if tokens[p].Kind != TOKEN_LPAREN || tokens[q].Kind != TOKEN_RPAREN {
		return false
	}

	depth := 0
	for n := p; n <= q; n++ {
		switch tokens[n].Kind {
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			depth--
			if depth == 0 && n != q {
				return false
			}
		}
	}

	return depth == 0
}

// dominant finds the operator to split [p, q] at: outside parentheses,
// lowest precedence. Equal binary operators resolve to the rightmost, so
// they group left to right; equal prefix operators resolve to the leftmost.
func dominant(tokens []Token, p, q int) (op int, err error) {
	op = -1
	depth := 0

	for n := p; n <= q; n++ {
		tok := tokens[n]
		switch tok.Kind {
		case TOKEN_LPAREN:
			depth++
			continue
		case TOKEN_RPAREN:
			depth--
			if depth < 0 {
				err = syntaxError(tokens, n, ErrParenUnmatched)
				return
			}
			continue
		}

		if depth > 0 || !tok.Kind.IsOperator() {
			continue
		}

		if op < 0 {
			op = n
			continue
		}

		best := tokens[op]
		if tok.Precedence < best.Precedence || (tok.Precedence == best.Precedence && !tok.Kind.IsUnary()) {
			op = n
		}
	}

	if depth != 0 {
		err = syntaxError(tokens, p, ErrParenUnmatched)
		return
	}

	if op < 0 {
		err = syntaxError(tokens, p, ErrNoDominant)
	}

	return
}

// eval evaluates the inclusive token range [p, q]. The first error found
// is returned unchanged by every enclosing call.
func (ev *Evaluator) eval(tokens []Token, p, q int) (value uint32, err error) {
	switch {
	case p > q:
		err = syntaxError(tokens, p, ErrNeedOperand)
		return
	case p == q:
		return ev.operand(tokens, p)
	case surrounded(tokens, p, q):
		return ev.eval(tokens, p+1, q-1)
	}

	op, err := dominant(tokens, p, q)
	if err != nil {
		return
	}

	tok := tokens[op]
	if ev.Verbose {
		log.Printf("expr: [%d,%d] split at %d %v", p, q, op, tok)
	}

	if tok.Kind.IsUnary() {
		if op != p {
			err = syntaxError(tokens, op, ErrUnaryOperand)
			return
		}
		var arg uint32
		arg, err = ev.eval(tokens, op+1, q)
		if err != nil {
			return
		}
		return ev.unary(tok, arg)
	}

	lhs, err := ev.eval(tokens, p, op-1)
	if err != nil {
		return
	}

	rhs, err := ev.eval(tokens, op+1, q)
	if err != nil {
		return
	}

	return binary(tok, lhs, rhs)
}

// operand evaluates a single number or register token.
func (ev *Evaluator) operand(tokens []Token, n int) (value uint32, err error) {
	tok := tokens[n]

	switch tok.Kind {
	case TOKEN_NUMBER:
		var v64 uint64
		if strings.HasPrefix(tok.Lexeme, "0x") || strings.HasPrefix(tok.Lexeme, "0X") {
			v64, err = strconv.ParseUint(tok.Lexeme[2:], 16, 32)
		} else {
			v64, err = strconv.ParseUint(tok.Lexeme, 10, 32)
		}
		if err != nil {
			err = syntaxError(tokens, n, ErrNumberRange)
			return
		}
		value = uint32(v64)
	case TOKEN_REGISTER:
		value, err = ev.register(tok.Lexeme)
		if err != nil {
			err = syntaxError(tokens, n, err)
		}
	default:
		err = syntaxError(tokens, n, ErrSingleToken)
	}

	return
}

// register reads a $name operand, trying each register width in turn.
func (ev *Evaluator) register(lexeme string) (value uint32, err error) {
	if ev.Accessor == nil {
		err = ErrNoMachine
		return
	}

	name := strings.ToLower(strings.TrimPrefix(lexeme, "$"))
	if name == "eip" {
		value = ev.Accessor.ReadInstructionPointer()
		return
	}

	for _, width := range registerWidths {
		var rerr error
		value, rerr = ev.Accessor.ReadRegister(name, width)
		if rerr == nil {
			return
		}
	}

	value = 0
	err = ErrRegisterUnknown
	return
}

// unary applies a prefix operator.
func (ev *Evaluator) unary(tok Token, arg uint32) (value uint32, err error) {
	switch tok.Kind {
	case TOKEN_NOT:
		value = b2u(arg == 0)
	case TOKEN_NEGATE:
		value = -arg
	case TOKEN_DEREF:
		if ev.Accessor == nil {
			err = &ErrSyntax{Token: tok.Lexeme, Offset: tok.Offset, Err: ErrNoMachine}
			return
		}
		value, err = ev.Accessor.ReadMemory(arg, 4)
		if err != nil {
			value = 0
			err = &ErrSyntax{Token: tok.Lexeme, Offset: tok.Offset, Err: err}
		}
	default:
		err = &ErrSyntax{Token: tok.Lexeme, Offset: tok.Offset, Err: ErrSingleToken}
	}

	return
}

// binary applies an infix operator. Division is unsigned.
func binary(tok Token, lhs, rhs uint32) (value uint32, err error) {
	switch tok.Kind {
	case TOKEN_PLUS:
		value = lhs + rhs
	case TOKEN_MINUS:
		value = lhs - rhs
	case TOKEN_STAR:
		value = lhs * rhs
	case TOKEN_SLASH:
		if rhs == 0 {
			err = ErrDivisionByZero
			return
		}
		value = lhs / rhs
	case TOKEN_EQ:
		value = b2u(lhs == rhs)
	case TOKEN_NEQ:
		value = b2u(lhs != rhs)
	case TOKEN_AND:
		value = b2u(lhs != 0 && rhs != 0)
	case TOKEN_OR:
		value = b2u(lhs != 0 || rhs != 0)
	default:
		err = &ErrSyntax{Token: tok.Lexeme, Offset: tok.Offset, Err: ErrNoDominant}
	}

	return
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
