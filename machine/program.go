// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Statement is one instruction of a program.
type Statement struct {
	LineNo int    // Source line.
	Text   string // Starlark statement.
}

// Program is a machine instruction stream. Statement n lives at address
// ENTRY_START + n.
type Program struct {
	Statements []Statement
}

// Parse reads a program. Every line that is not blank or a '#' comment is
// one instruction, and must be a valid Starlark statement on its own.
func Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	prog = &Program{}

	var lineno int
	for scanner.Scan() {
		lineno += 1
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		opts := syntax.FileOptions{}
		_, err = opts.Parse(fmt.Sprintf("line%d", lineno), line+"\n", 0)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}

		prog.Statements = append(prog.Statements, Statement{LineNo: lineno, Text: line})
	}

	err = scanner.Err()

	return
}

// At returns the statement at an address.
func (prog *Program) At(address uint32) (stmt Statement, ok bool) {
	if prog == nil || address < ENTRY_START {
		return
	}

	index := address - ENTRY_START
	if index >= uint32(len(prog.Statements)) {
		return
	}

	return prog.Statements[index], true
}

// toUint32 converts a Starlark int to a 32-bit word, wrapping negatives.
func toUint32(value starlark.Int) (word uint32, err error) {
	v64, ok := value.Int64()
	if !ok || v64 > 0xffffffff || v64 < -0x80000000 {
		err = ErrValue
		return
	}

	word = uint32(v64)
	return
}

// setRegister writes a register by name, trying each width.
func (m *Machine) setRegister(name string, value uint32) (err error) {
	for _, width := range []int{32, 16, 8} {
		err = m.WriteRegister(name, width, value)
		if err == nil {
			return
		}
	}

	return
}

// exec runs one statement. jumped is set if the statement wrote eip.
func (m *Machine) exec(stmt Statement) (jumped bool, err error) {
	thread := starlark.Thread{Name: "nemu"}
	thread.SetMaxExecutionSteps(STEP_LIMIT)
	opts := syntax.FileOptions{}

	pred := starlark.StringDict{}
	for name, value := range m.AllRegisters() {
		pred[name] = starlark.MakeUint64(uint64(value))
	}

	pred["set"] = starlark.NewBuiltin("set", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var value starlark.Int
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "value", &value); err != nil {
			return nil, err
		}
		word, err := toUint32(value)
		if err != nil {
			return nil, err
		}
		if strings.ToLower(name) == "eip" {
			m.Eip = word
			jumped = true
			return starlark.None, nil
		}
		return starlark.None, m.setRegister(name, word)
	})

	pred["peek"] = starlark.NewBuiltin("peek", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var address starlark.Int
		length := 4
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "address", &address, "length?", &length); err != nil {
			return nil, err
		}
		addr, err := toUint32(address)
		if err != nil {
			return nil, err
		}
		value, err := m.Memory.Read(addr, length)
		if err != nil {
			return nil, err
		}
		return starlark.MakeUint64(uint64(value)), nil
	})

	pred["poke"] = starlark.NewBuiltin("poke", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var address, value starlark.Int
		length := 4
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "address", &address, "value", &value, "length?", &length); err != nil {
			return nil, err
		}
		addr, err := toUint32(address)
		if err != nil {
			return nil, err
		}
		word, err := toUint32(value)
		if err != nil {
			return nil, err
		}
		return starlark.None, m.Memory.Write(addr, length, word)
	})

	_, err = starlark.ExecFileOptions(&opts, &thread, fmt.Sprintf("line%d", stmt.LineNo), stmt.Text+"\n", pred)

	return
}
