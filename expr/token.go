// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package expr

import (
	"fmt"
)

const (
	TOKEN_LIMIT   = 32 // Maximum tokens in one expression.
	OPERAND_LIMIT = 31 // Maximum length of a number or register lexeme.
)

// TokenKind is the lexical class of a token.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_NUMBER   = TokenKind(0)  // number
	TOKEN_REGISTER = TokenKind(1)  // register
	TOKEN_PLUS     = TokenKind(2)  // +
	TOKEN_MINUS    = TokenKind(3)  // -
	TOKEN_STAR     = TokenKind(4)  // *
	TOKEN_SLASH    = TokenKind(5)  // /
	TOKEN_LPAREN   = TokenKind(6)  // (
	TOKEN_RPAREN   = TokenKind(7)  // )
	TOKEN_EQ       = TokenKind(8)  // ==
	TOKEN_NEQ      = TokenKind(9)  // !=
	TOKEN_AND      = TokenKind(10) // &&
	TOKEN_OR       = TokenKind(11) // ||
	TOKEN_NOT      = TokenKind(12) // !
	TOKEN_NEGATE   = TokenKind(13) // neg
	TOKEN_DEREF    = TokenKind(14) // deref
)

// Precedence levels. Lower values bind more loosely.
const (
	PREC_OR             = 1
	PREC_AND            = 2
	PREC_EQUALITY       = 3
	PREC_ADDITIVE       = 4
	PREC_MULTIPLICATIVE = 5
	PREC_UNARY          = 6
	PREC_OPERAND        = 7 // Numbers, registers and parentheses.
)

// Token is a single lexeme of an expression.
type Token struct {
	Kind       TokenKind
	Lexeme     string
	Precedence int
	Offset     int // Byte offset of the lexeme in the source text.
}

// IsOperand returns true for numbers and registers.
func (kind TokenKind) IsOperand() bool {
	return kind == TOKEN_NUMBER || kind == TOKEN_REGISTER
}

// IsUnary returns true for prefix operators.
func (kind TokenKind) IsUnary() bool {
	switch kind {
	case TOKEN_NOT, TOKEN_NEGATE, TOKEN_DEREF:
		return true
	}
	return false
}

// IsOperator returns true for every kind a range can be split at.
func (kind TokenKind) IsOperator() bool {
	return !kind.IsOperand() && kind != TOKEN_LPAREN && kind != TOKEN_RPAREN
}

func (tok Token) String() string {
	return fmt.Sprintf("%v'%v'@%d", tok.Kind, tok.Lexeme, tok.Offset)
}
