package expr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type lexTest struct {
	in  string
	out []TokenKind
}

var lexTests = []lexTest{
	{"1", []TokenKind{TOKEN_NUMBER}},
	{"0x1f", []TokenKind{TOKEN_NUMBER}},
	{"0X1F+1", []TokenKind{TOKEN_NUMBER, TOKEN_PLUS, TOKEN_NUMBER}},
	{"$eax", []TokenKind{TOKEN_REGISTER}},
	{"  1 +\t2 ", []TokenKind{TOKEN_NUMBER, TOKEN_PLUS, TOKEN_NUMBER}},
	{"1==2", []TokenKind{TOKEN_NUMBER, TOKEN_EQ, TOKEN_NUMBER}},
	{"1!=2", []TokenKind{TOKEN_NUMBER, TOKEN_NEQ, TOKEN_NUMBER}},
	{"!1", []TokenKind{TOKEN_NOT, TOKEN_NUMBER}},
	{"!!1", []TokenKind{TOKEN_NOT, TOKEN_NOT, TOKEN_NUMBER}},
	{"1&&2||3", []TokenKind{TOKEN_NUMBER, TOKEN_AND, TOKEN_NUMBER, TOKEN_OR, TOKEN_NUMBER}},
	{"*$esp-4", []TokenKind{TOKEN_STAR, TOKEN_REGISTER, TOKEN_MINUS, TOKEN_NUMBER}},
	{"(1)/(2)", []TokenKind{TOKEN_LPAREN, TOKEN_NUMBER, TOKEN_RPAREN, TOKEN_SLASH, TOKEN_LPAREN, TOKEN_NUMBER, TOKEN_RPAREN}},
	{"", nil},
	{"   ", nil},
}

func kinds(tokens []Token) (out []TokenKind) {
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return
}

func TestTokenize(t *testing.T) {
	assert := assert.New(t)

	for _, test := range lexTests {
		tokens, err := Tokenize(test.in)
		assert.NoError(err, test.in)
		assert.Equal(test.out, kinds(tokens), test.in)
	}
}

func TestTokenize_Lexeme(t *testing.T) {
	assert := assert.New(t)

	tokens, err := Tokenize("$EAX == 0x10")
	assert.NoError(err)
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %v", tokens)
	}

	assert.Equal(Token{Kind: TOKEN_REGISTER, Lexeme: "$EAX", Precedence: PREC_OPERAND, Offset: 0}, tokens[0])
	assert.Equal(Token{Kind: TOKEN_EQ, Lexeme: "==", Precedence: PREC_EQUALITY, Offset: 5}, tokens[1])
	assert.Equal(Token{Kind: TOKEN_NUMBER, Lexeme: "0x10", Precedence: PREC_OPERAND, Offset: 8}, tokens[2])
}

func TestTokenize_Precedence(t *testing.T) {
	assert := assert.New(t)

	tokens, err := Tokenize("||&&==!=+-*/!()")
	assert.NoError(err)

	expected := []int{
		PREC_OR, PREC_AND, PREC_EQUALITY, PREC_EQUALITY,
		PREC_ADDITIVE, PREC_ADDITIVE, PREC_MULTIPLICATIVE, PREC_MULTIPLICATIVE,
		PREC_UNARY, PREC_OPERAND, PREC_OPERAND,
	}
	var got []int
	for _, tok := range tokens {
		got = append(got, tok.Precedence)
	}
	assert.Equal(expected, got)
}

func TestTokenize_NoMatch(t *testing.T) {
	assert := assert.New(t)

	for in, offset := range map[string]int{
		"1 @ 2":   2,
		"0x":      1,
		"12abc":   2,
		"$":       0,
		"1 = 2":   2,
		"1 & 2":   2,
		"1 | 2":   2,
		"\"str\"": 0,
		"1.5":     1,
	} {
		_, err := Tokenize(in)
		var lexErr *ErrLex
		if !errors.As(err, &lexErr) {
			t.Errorf("%q: expected ErrLex, got %v", in, err)
			continue
		}
		assert.Equal(offset, lexErr.Offset, in)
		assert.Equal(in, lexErr.Text, in)
	}
}

func TestTokenize_OperandTooLong(t *testing.T) {
	assert := assert.New(t)

	ok := strings.Repeat("1", OPERAND_LIMIT)
	tokens, err := Tokenize(ok)
	assert.NoError(err)
	assert.Len(tokens, 1)

	long := strings.Repeat("1", OPERAND_LIMIT+1)
	_, err = Tokenize(long)
	assert.Equal(ErrOperandTooLong(long), err)

	reg := "$" + strings.Repeat("a", OPERAND_LIMIT)
	_, err = Tokenize(reg)
	assert.Equal(ErrOperandTooLong(reg), err)
}

func TestTokenize_Overflow(t *testing.T) {
	assert := assert.New(t)

	full := strings.Repeat("1+", 16)
	tokens, err := Tokenize(full)
	assert.NoError(err)
	assert.Len(tokens, TOKEN_LIMIT)

	_, err = Tokenize(full + "1")
	assert.ErrorIs(err, ErrTokenOverflow)
}

func TestTokenKind_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("number", TOKEN_NUMBER.String())
	assert.Equal("==", TOKEN_EQ.String())
	assert.Equal("deref", TOKEN_DEREF.String())
	assert.Equal("TokenKind(99)", TokenKind(99).String())
}
