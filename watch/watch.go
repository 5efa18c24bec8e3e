// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package watch keeps the monitor's watchpoints: expressions whose value is
// re-evaluated between machine steps so that changes can be caught.
package watch

import (
	"iter"
	"log"
)

const (
	WATCHPOINT_LIMIT = 32 // Capacity of the watchpoint pool.
	EXPRESSION_LIMIT = 64 // Maximum length of a watched expression.

	NONE = -1 // No link.
)

// Evaluator evaluates watched expression text.
type Evaluator interface {
	Eval(text string) (value uint32, err error)
}

// Watchpoint is a watched expression and its last known value.
type Watchpoint struct {
	Id         int    // Pool index; reused after release.
	Expression string // Source text.
	Value      uint32 // Value at allocation or at the last change.

	next int // Next index in the active or free chain.
}

// Transition is a change of a watchpoint's value seen by Scan.
type Transition struct {
	Id         int
	Expression string
	Old        uint32
	New        uint32
}

// Registry is a fixed pool of watchpoints. Allocated watchpoints form the
// active chain, newest first; the rest form the free chain.
type Registry struct {
	Verbose   bool      // If set, logs allocation, release and changes.
	Evaluator Evaluator // Evaluates watched expressions.

	pool   [WATCHPOINT_LIMIT]Watchpoint
	active int
	free   int
	count  int
}

// NewRegistry creates an empty registry. eval is required to allocate or
// scan watchpoints.
func NewRegistry(eval Evaluator) (reg *Registry) {
	reg = &Registry{
		Evaluator: eval,
	}

	reg.Reset()

	return
}

// Reset releases every watchpoint. The free chain is rebuilt in id order.
func (reg *Registry) Reset() {
	for n := range reg.pool {
		reg.pool[n] = Watchpoint{Id: n, next: n + 1}
	}
	reg.pool[WATCHPOINT_LIMIT-1].next = NONE

	reg.active = NONE
	reg.free = 0
	reg.count = 0
}

// Len returns the number of allocated watchpoints.
func (reg *Registry) Len() int {
	return reg.count
}

// Allocate registers a watchpoint on text, seeding its value with one
// evaluation. If that evaluation fails the watchpoint is still registered,
// and returned together with an *ErrSeed. Without an Evaluator nothing is
// registered.
func (reg *Registry) Allocate(text string) (wp Watchpoint, err error) {
	if reg.Evaluator == nil {
		err = ErrNoEvaluator
		return
	}

	if len(text) > EXPRESSION_LIMIT {
		err = ErrExpressionTooLong
		return
	}

	if reg.free == NONE {
		err = ErrPoolExhausted
		return
	}

	id := reg.free
	slot := &reg.pool[id]
	reg.free = slot.next

	slot.Expression = text
	slot.Value = 0
	slot.next = reg.active
	reg.active = id
	reg.count++

	value, eval_err := reg.Evaluator.Eval(text)
	if eval_err != nil {
		err = &ErrSeed{Id: id, Err: eval_err}
	} else {
		slot.Value = value
	}

	if reg.Verbose {
		log.Printf("watch: allocate %d %q = %#x (%v)", id, text, slot.Value, eval_err)
	}

	wp = *slot
	wp.next = 0
	return
}

// Release returns the watchpoint id to the free chain. It returns false if
// id is not allocated.
func (reg *Registry) Release(id int) bool {
	prev := NONE
	cur := reg.active
	for cur != NONE && cur != id {
		prev = cur
		cur = reg.pool[cur].next
	}

	if cur == NONE {
		return false
	}

	slot := &reg.pool[cur]
	if prev == NONE {
		reg.active = slot.next
	} else {
		reg.pool[prev].next = slot.next
	}

	slot.Expression = ""
	slot.Value = 0
	slot.next = reg.free
	reg.free = cur
	reg.count--

	if reg.Verbose {
		log.Printf("watch: release %d", id)
	}

	return true
}

// Get returns the allocated watchpoint id.
func (reg *Registry) Get(id int) (wp Watchpoint, ok bool) {
	for cur := range reg.chain() {
		if cur.Id == id {
			wp = *cur
			wp.next = 0
			ok = true
			return
		}
	}

	return
}

// All iterates over the allocated watchpoints, newest first.
func (reg *Registry) All() iter.Seq[Watchpoint] {
	return func(yield func(wp Watchpoint) bool) {
		for cur := range reg.chain() {
			wp := *cur
			wp.next = 0
			if !yield(wp) {
				return
			}
		}
	}
}

// chain walks the active chain.
func (reg *Registry) chain() iter.Seq[*Watchpoint] {
	return func(yield func(wp *Watchpoint) bool) {
		for cur := reg.active; cur != NONE; cur = reg.pool[cur].next {
			if !yield(&reg.pool[cur]) {
				return
			}
		}
	}
}

// Scan re-evaluates every watchpoint, newest first, and returns the ones
// whose value changed. Their recorded values are updated. A watchpoint whose
// expression fails to evaluate keeps its old value. Without an Evaluator
// nothing changes.
func (reg *Registry) Scan() (changes []Transition) {
	if reg.Evaluator == nil {
		return
	}

	for wp := range reg.chain() {
		value, err := reg.Evaluator.Eval(wp.Expression)
		if err != nil {
			if reg.Verbose {
				log.Printf("watch: %d %q: %v", wp.Id, wp.Expression, err)
			}
			continue
		}

		if value == wp.Value {
			continue
		}

		changes = append(changes, Transition{
			Id:         wp.Id,
			Expression: wp.Expression,
			Old:        wp.Value,
			New:        value,
		})
		wp.Value = value
	}

	return
}
