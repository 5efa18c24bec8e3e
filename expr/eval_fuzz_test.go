package expr

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

func FuzzEval(f *testing.F) {
	for _, test := range evalTests {
		f.Add(test.in)
	}
	for _, test := range evalErrorTests {
		f.Add(test.in)
	}

	f.Fuzz(func(t *testing.T, text string) {
		assert := assert.New(t)

		ev := &Evaluator{Accessor: newTestMachine()}
		value, err := ev.Eval(text)
		if err != nil {
			assert.Equal(uint32(0), value, text)
			return
		}

		tokens, _ := Tokenize(text)
		if len(tokens) > TOKEN_LIMIT-2 {
			return
		}

		wrapped, err := ev.Eval("(" + text + ")")
		assert.NoError(err, text)
		assert.Equal(value, wrapped, text)
	})
}

// randomArith builds a random expression of + - * over small literals.
func randomArith(rands *rand.Rand, depth int) string {
	if depth == 0 || rands.Intn(3) == 0 {
		return fmt.Sprintf("%d", rands.Intn(100))
	}

	lhs := randomArith(rands, depth-1)
	rhs := randomArith(rands, depth-1)
	op := []string{"+", "-", "*"}[rands.Intn(3)]

	switch rands.Intn(4) {
	case 0:
		return "(" + lhs + op + rhs + ")"
	case 1:
		return "-(" + lhs + ")" + op + rhs
	default:
		return lhs + " " + op + " " + rhs
	}
}

// starlarkEval evaluates text as a Starlark integer expression.
func starlarkEval(text string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	dict, err := starlark.ExecFileOptions(&opts, &thread, "oracle", "rc="+text+"\n", nil)
	if err != nil {
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = fmt.Errorf("%v: not an int", text)
		return
	}

	// Products of small literals stay well inside int64.
	value, ok = st_int.Int64()
	if !ok {
		err = fmt.Errorf("%v: out of range", text)
	}
	return
}

func TestEvaluator_StarlarkOracle(t *testing.T) {
	assert := assert.New(t)

	rands := rand.New(rand.NewSource(1))
	ev := &Evaluator{}

	checked := 0
	for range 500 {
		text := randomArith(rands, 3)
		tokens, err := Tokenize(text)
		if errors.Is(err, ErrTokenOverflow) {
			continue
		}
		assert.NoError(err, text)

		expected, err := starlarkEval(strings.ReplaceAll(text, "--", "- -"))
		if err != nil {
			t.Fatalf("%v: %v", text, err)
		}

		value, err := ev.Evaluate(tokens)
		assert.NoError(err, text)
		assert.Equal(uint32(expected), value, text)
		checked++
	}

	assert.Greater(checked, 100)
}
