// Package machine implements the emulated machine inspected by the monitor.
//
// The machine has the eight 32-bit x86 general registers, with their 16-bit
// and 8-bit views, an instruction pointer (eip) and a byte-addressable
// little-endian memory. Its instruction stream is a line-oriented Starlark
// script: each line is one instruction, executed against a snapshot of the
// registers, with builtins to set registers and to access memory.
package machine
