package machine

import (
	"iter"
	"slices"
	"strings"
)

const (
	R_EAX = 0
	R_ECX = 1
	R_EDX = 2
	R_EBX = 3
	R_ESP = 4
	R_EBP = 5
	R_ESI = 6
	R_EDI = 7
)

var regsl = [8]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi"}
var regsw = [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}
var regsb = [8]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}

// registerNames returns the name table for a register width.
func registerNames(width int) (names []string, ok bool) {
	switch width {
	case 32:
		return regsl[:], true
	case 16:
		return regsw[:], true
	case 8:
		return regsb[:], true
	}
	return
}

// registerIndex finds a lowercase name in the width's table.
func registerIndex(name string, width int) (index int, err error) {
	names, ok := registerNames(width)
	if !ok {
		err = ErrRegisterUnknown
		return
	}

	index = slices.Index(names, name)
	if index < 0 {
		err = ErrRegisterUnknown
	}

	return
}

// ReadRegister returns a register by case-insensitive name and width
// (8, 16 or 32), zero-extended to 32 bits.
func (m *Machine) ReadRegister(name string, width int) (value uint32, err error) {
	index, err := registerIndex(strings.ToLower(name), width)
	if err != nil {
		return
	}

	switch width {
	case 32:
		value = m.Gpr[index]
	case 16:
		value = m.Gpr[index] & 0xffff
	case 8:
		if index < 4 {
			value = m.Gpr[index] & 0xff
		} else {
			value = (m.Gpr[index-4] >> 8) & 0xff
		}
	}

	return
}

// WriteRegister replaces the bits of a register view, leaving the rest of
// the underlying 32-bit register intact.
func (m *Machine) WriteRegister(name string, width int, value uint32) (err error) {
	index, err := registerIndex(strings.ToLower(name), width)
	if err != nil {
		return
	}

	switch width {
	case 32:
		m.Gpr[index] = value
	case 16:
		m.Gpr[index] = (m.Gpr[index] &^ 0xffff) | (value & 0xffff)
	case 8:
		if index < 4 {
			m.Gpr[index] = (m.Gpr[index] &^ 0xff) | (value & 0xff)
		} else {
			m.Gpr[index-4] = (m.Gpr[index-4] &^ 0xff00) | ((value & 0xff) << 8)
		}
	}

	return
}

// ReadInstructionPointer returns eip.
func (m *Machine) ReadInstructionPointer() uint32 {
	return m.Eip
}

// ReadMemory returns length bytes at address as a little-endian word.
func (m *Machine) ReadMemory(address uint32, length int) (value uint32, err error) {
	return m.Memory.Read(address, length)
}

// registerSeq iterates over one width's registers.
func (m *Machine) registerSeq(width int) iter.Seq2[string, uint32] {
	return func(yield func(name string, value uint32) bool) {
		names, _ := registerNames(width)
		for _, name := range names {
			value, _ := m.ReadRegister(name, width)
			if !yield(name, value) {
				return
			}
		}
	}
}

// eipSeq yields the instruction pointer.
func (m *Machine) eipSeq() iter.Seq2[string, uint32] {
	return func(yield func(name string, value uint32) bool) {
		yield("eip", m.Eip)
	}
}
