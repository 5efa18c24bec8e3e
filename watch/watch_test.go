package watch

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/nemu/expr"
)

var errUnknown = errors.New("unknown")

// evalMap evaluates an expression by looking it up.
type evalMap map[string]uint32

func (em evalMap) Eval(text string) (value uint32, err error) {
	value, ok := em[text]
	if !ok {
		err = errUnknown
	}
	return
}

// registers is a 32-bit only accessor for the expression evaluator.
type registers map[string]uint32

func (r registers) ReadRegister(name string, width int) (value uint32, err error) {
	value, ok := r[name]
	if !ok || width != 32 {
		err = expr.ErrRegisterUnknown
	}
	return
}

func (r registers) ReadInstructionPointer() uint32 {
	return r["eip"]
}

func (r registers) ReadMemory(address uint32, length int) (value uint32, err error) {
	err = expr.ErrNoMachine
	return
}

func ids(reg *Registry) (out []int) {
	for wp := range reg.All() {
		out = append(out, wp.Id)
	}
	return
}

func TestRegistry(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry(evalMap{})
	assert.Equal(0, reg.Len())
	assert.Nil(ids(reg))
	assert.Nil(reg.Scan())
}

func TestRegistry_Allocate(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry(evalMap{"a": 1, "b": 2})

	wp, err := reg.Allocate("a")
	assert.NoError(err)
	assert.Equal(Watchpoint{Id: 0, Expression: "a", Value: 1}, wp)

	wp, err = reg.Allocate("b")
	assert.NoError(err)
	assert.Equal(Watchpoint{Id: 1, Expression: "b", Value: 2}, wp)

	assert.Equal(2, reg.Len())
	assert.Equal([]int{1, 0}, ids(reg))

	got, ok := reg.Get(0)
	assert.True(ok)
	assert.Equal(Watchpoint{Id: 0, Expression: "a", Value: 1}, got)

	_, ok = reg.Get(5)
	assert.False(ok)
}

func TestRegistry_Allocate_SeedFailure(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry(evalMap{})

	wp, err := reg.Allocate("nope")
	assert.ErrorIs(err, errUnknown)
	var seed *ErrSeed
	if assert.ErrorAs(err, &seed) {
		assert.Equal(0, seed.Id)
	}
	assert.Equal(Watchpoint{Id: 0, Expression: "nope"}, wp)
	assert.Equal(1, reg.Len())
	assert.Equal([]int{0}, ids(reg))
}

func TestRegistry_Allocate_TooLong(t *testing.T) {
	assert := assert.New(t)

	text := strings.Repeat("1", EXPRESSION_LIMIT)
	reg := NewRegistry(evalMap{text: 1})

	_, err := reg.Allocate(text)
	assert.NoError(err)

	_, err = reg.Allocate(text + "1")
	assert.Equal(ErrExpressionTooLong, err)
	assert.Equal(1, reg.Len())
}

func TestRegistry_Exhausted(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry(evalMap{"1": 1})

	for n := range WATCHPOINT_LIMIT {
		wp, err := reg.Allocate("1")
		assert.NoError(err)
		assert.Equal(n, wp.Id)
	}
	assert.Equal(WATCHPOINT_LIMIT, reg.Len())

	_, err := reg.Allocate("1")
	assert.Equal(ErrPoolExhausted, err)
	assert.Equal(WATCHPOINT_LIMIT, reg.Len())

	// A release makes room for exactly one more.
	assert.True(reg.Release(17))
	wp, err := reg.Allocate("1")
	assert.NoError(err)
	assert.Equal(17, wp.Id)

	_, err = reg.Allocate("1")
	assert.Equal(ErrPoolExhausted, err)
}

func TestRegistry_Release(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry(evalMap{"1": 1})

	assert.False(reg.Release(0))
	assert.False(reg.Release(NONE))
	assert.False(reg.Release(WATCHPOINT_LIMIT))

	for range 4 {
		_, err := reg.Allocate("1")
		assert.NoError(err)
	}
	assert.Equal([]int{3, 2, 1, 0}, ids(reg))

	// Head of the active chain.
	assert.True(reg.Release(3))
	assert.Equal([]int{2, 1, 0}, ids(reg))

	// Middle.
	assert.True(reg.Release(1))
	assert.Equal([]int{2, 0}, ids(reg))

	// Tail.
	assert.True(reg.Release(0))
	assert.Equal([]int{2}, ids(reg))

	// Twice.
	assert.False(reg.Release(0))

	assert.True(reg.Release(2))
	assert.Nil(ids(reg))
	assert.Equal(0, reg.Len())
}

func TestRegistry_Reuse(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry(evalMap{"a": 1, "b": 2})

	for range 3 {
		_, err := reg.Allocate("a")
		assert.NoError(err)
	}

	assert.True(reg.Release(1))
	assert.True(reg.Release(0))

	// Most recently released first.
	wp, err := reg.Allocate("b")
	assert.NoError(err)
	assert.Equal(Watchpoint{Id: 0, Expression: "b", Value: 2}, wp)

	wp, err = reg.Allocate("b")
	assert.NoError(err)
	assert.Equal(1, wp.Id)

	wp, err = reg.Allocate("b")
	assert.NoError(err)
	assert.Equal(3, wp.Id)

	assert.Equal([]int{3, 1, 0, 2}, ids(reg))
}

func TestRegistry_Scan(t *testing.T) {
	assert := assert.New(t)

	values := evalMap{"a": 1, "b": 2, "c": 3}
	reg := NewRegistry(values)

	for _, text := range []string{"a", "b", "c"} {
		_, err := reg.Allocate(text)
		assert.NoError(err)
	}

	assert.Nil(reg.Scan())

	values["a"] = 10
	values["c"] = 30
	changes := reg.Scan()
	assert.Equal([]Transition{
		{Id: 2, Expression: "c", Old: 3, New: 30},
		{Id: 0, Expression: "a", Old: 1, New: 10},
	}, changes)

	wp, _ := reg.Get(0)
	assert.Equal(uint32(10), wp.Value)

	assert.Nil(reg.Scan())

	// Failures keep the stale value.
	delete(values, "b")
	assert.Nil(reg.Scan())
	wp, _ = reg.Get(1)
	assert.Equal(uint32(2), wp.Value)

	values["b"] = 2
	assert.Nil(reg.Scan())
	values["b"] = 0
	assert.Equal([]Transition{{Id: 1, Expression: "b", Old: 2, New: 0}}, reg.Scan())
}

func TestRegistry_ScanRegister(t *testing.T) {
	assert := assert.New(t)

	regs := registers{"eax": 0x10, "eip": 0x100000}
	reg := NewRegistry(&expr.Evaluator{Accessor: regs})

	wp, err := reg.Allocate("$eax")
	assert.NoError(err)
	assert.Equal(uint32(0x10), wp.Value)

	other, err := reg.Allocate("$eip == 0x100004")
	assert.NoError(err)
	assert.Equal(uint32(0), other.Value)

	regs["eax"] = 0x20
	changes := reg.Scan()
	assert.Equal([]Transition{{Id: wp.Id, Expression: "$eax", Old: 0x10, New: 0x20}}, changes)
	assert.Nil(reg.Scan())

	regs["eip"] = 0x100004
	changes = reg.Scan()
	assert.Equal([]Transition{{Id: other.Id, Expression: "$eip == 0x100004", Old: 0, New: 1}}, changes)
}

func TestRegistry_Reset(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry(evalMap{"1": 1})
	for range 5 {
		_, err := reg.Allocate("1")
		assert.NoError(err)
	}
	assert.True(reg.Release(2))

	reg.Reset()
	assert.Equal(0, reg.Len())
	assert.Nil(ids(reg))

	wp, err := reg.Allocate("1")
	assert.NoError(err)
	assert.Equal(0, wp.Id)
}

func TestRegistry_Churn(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry(evalMap{"1": 1})
	live := map[int]bool{}

	for round := range 200 {
		if round%3 == 2 && len(live) > 0 {
			var victim int
			for id := range live {
				victim = id
				break
			}
			assert.True(reg.Release(victim))
			delete(live, victim)
			continue
		}

		wp, err := reg.Allocate("1")
		if len(live) == WATCHPOINT_LIMIT {
			assert.Equal(ErrPoolExhausted, err)
			continue
		}
		assert.NoError(err)
		assert.False(live[wp.Id], fmt.Sprintf("id %d handed out twice", wp.Id))
		live[wp.Id] = true
	}

	got := ids(reg)
	slices.Sort(got)
	var expected []int
	for id := range live {
		expected = append(expected, id)
	}
	slices.Sort(expected)
	assert.Equal(expected, got)
	assert.Equal(len(live), reg.Len())
}

func TestErrWatchpointUnknown(t *testing.T) {
	assert := assert.New(t)

	err := error(ErrWatchpointUnknown(4))
	assert.ErrorIs(err, ErrWatchpointNotFound)
	assert.Equal("no watchpoint at 4", err.Error())
}

func TestRegistry_NoEvaluator(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry(nil)

	_, err := reg.Allocate("$eax")
	assert.Equal(ErrNoEvaluator, err)
	assert.Equal(0, reg.Len())
	assert.Nil(reg.Scan())

	reg.Evaluator = evalMap{"a": 3}
	wp, err := reg.Allocate("a")
	assert.NoError(err)
	assert.Equal(0, wp.Id)
	assert.Equal(uint32(3), wp.Value)
}
