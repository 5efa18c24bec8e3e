// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"fmt"
	"iter"
	"log"

	"github.com/ezrec/nemu/internal"
)

const (
	ENTRY_START = 0x100000 // Address of the first instruction.
	MEMORY_SIZE = 8 << 20  // Default memory size.
	STEP_LIMIT  = 1 << 20  // Starlark execution steps allowed per instruction.
)

// Machine is the emulated machine state.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Gpr     [8]uint32 // General registers, eax through edi.
	Eip     uint32    // Instruction pointer.
	Memory  Memory    // Physical memory.
	Program *Program  // Instruction stream.

	Ticks int // Instructions executed since reset.
}

// NewMachine creates a machine with size bytes of memory.
func NewMachine(size int) (m *Machine) {
	m = &Machine{
		Memory:  Memory{Data: make([]byte, size)},
		Program: &Program{},
	}

	m.Reset()

	return
}

// Reset clears the registers and points eip at the first instruction.
// Memory is left intact.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("machine: reset")
	}

	clear(m.Gpr[:])
	m.Eip = ENTRY_START
	m.Ticks = 0
}

// Registers iterates over the 32-bit registers, then eip.
func (m *Machine) Registers() iter.Seq2[string, uint32] {
	return internal.IterSeq2Concat(m.registerSeq(32), m.eipSeq())
}

// AllRegisters iterates over every register view, then eip.
func (m *Machine) AllRegisters() iter.Seq2[string, uint32] {
	return internal.IterSeq2Concat(m.registerSeq(32), m.registerSeq(16), m.registerSeq(8), m.eipSeq())
}

// String returns the register state.
func (m *Machine) String() (text string) {
	for name, value := range m.Registers() {
		text += fmt.Sprintf("% 5s: %04X_%04X\n", name, value>>16, value&0xffff)
	}

	return
}

// Tick executes the instruction at eip. done is set, without executing
// anything, once eip is outside of the program.
func (m *Machine) Tick() (done bool, err error) {
	stmt, ok := m.Program.At(m.Eip)
	if !ok {
		done = true
		return
	}

	if m.Verbose {
		log.Printf("%08x: %v", m.Eip, stmt.Text)
	}

	jumped, err := m.exec(stmt)
	if err != nil {
		err = &ErrRuntime{LineNo: stmt.LineNo, Err: err}
		return
	}

	if !jumped {
		m.Eip++
	}
	m.Ticks++

	return
}
