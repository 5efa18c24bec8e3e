// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package expr

import (
	"log"
	"regexp"
)

// rule is one entry of the ordered lexical rule table.
type rule struct {
	re         *regexp.Regexp
	kind       TokenKind
	precedence int
	skip       bool // Matched text produces no token.
}

func makeRule(pattern string, kind TokenKind, precedence int) rule {
	return rule{
		re:         regexp.MustCompile(`^(?:` + pattern + `)`),
		kind:       kind,
		precedence: precedence,
	}
}

// rules are tried in order; the first that matches wins. Hex must precede
// decimal, and two character operators must precede their prefixes.
var rules = []rule{
	{re: regexp.MustCompile(`^[ \t\r\n]+`), skip: true},
	makeRule(`0[xX][0-9a-fA-F]+`, TOKEN_NUMBER, PREC_OPERAND),
	makeRule(`[0-9]+`, TOKEN_NUMBER, PREC_OPERAND),
	makeRule(`\$[a-zA-Z][a-zA-Z0-9]*`, TOKEN_REGISTER, PREC_OPERAND),
	makeRule(`==`, TOKEN_EQ, PREC_EQUALITY),
	makeRule(`!=`, TOKEN_NEQ, PREC_EQUALITY),
	makeRule(`&&`, TOKEN_AND, PREC_AND),
	makeRule(`\|\|`, TOKEN_OR, PREC_OR),
	makeRule(`\+`, TOKEN_PLUS, PREC_ADDITIVE),
	makeRule(`-`, TOKEN_MINUS, PREC_ADDITIVE),
	makeRule(`\*`, TOKEN_STAR, PREC_MULTIPLICATIVE),
	makeRule(`/`, TOKEN_SLASH, PREC_MULTIPLICATIVE),
	makeRule(`\(`, TOKEN_LPAREN, PREC_OPERAND),
	makeRule(`\)`, TOKEN_RPAREN, PREC_OPERAND),
	makeRule(`!`, TOKEN_NOT, PREC_UNARY),
}

// Lexer splits expression text into tokens.
type Lexer struct {
	Verbose bool // If set, logs every rule match.
}

// Tokenize splits text into tokens using a default Lexer.
func Tokenize(text string) (tokens []Token, err error) {
	lex := &Lexer{}
	return lex.Tokenize(text)
}

// Tokenize splits text into tokens. '*' and '-' are always emitted as
// TOKEN_STAR and TOKEN_MINUS; their unary meaning is decided at evaluation.
func (lex *Lexer) Tokenize(text string) (tokens []Token, err error) {
	pos := 0

	for pos < len(text) {
		matched := false
		for n, r := range rules {
			loc := r.re.FindStringIndex(text[pos:])
			if loc == nil || loc[1] == 0 {
				continue
			}
			matched = true

			lexeme := text[pos : pos+loc[1]]
			if lex.Verbose {
				log.Printf("expr: rule %d %q at %d len %d: %q", n, r.re.String(), pos, len(lexeme), lexeme)
			}

			if !r.skip {
				if r.kind.IsOperand() && len(lexeme) > OPERAND_LIMIT {
					err = ErrOperandTooLong(lexeme)
					return
				}
				if len(tokens) == TOKEN_LIMIT {
					err = ErrTokenOverflow
					return
				}
				tokens = append(tokens, Token{
					Kind:       r.kind,
					Lexeme:     lexeme,
					Precedence: r.precedence,
					Offset:     pos,
				})
			}

			pos += len(lexeme)
			break
		}

		if !matched {
			err = &ErrLex{Offset: pos, Text: text}
			return
		}
	}

	return
}
