// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package monitor is the interactive debugger console: it steps the
// machine, evaluates expressions and reports watchpoint hits.
package monitor

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/nemu/expr"
	"github.com/ezrec/nemu/machine"
	"github.com/ezrec/nemu/watch"
)

const PROMPT = "(nemu) "

// Monitor drives a machine from debugger commands.
type Monitor struct {
	Verbose   bool             // If set, enables verbose logging throughout.
	Machine   *machine.Machine // Machine under debug.
	Evaluator *expr.Evaluator  // Expression evaluator over Machine.
	Watch     *watch.Registry  // Watchpoints over Evaluator.
	Output    io.Writer        // Command output.

	ended bool
}

// NewMonitor creates a monitor on m, writing to out.
func NewMonitor(m *machine.Machine, out io.Writer) (mon *Monitor) {
	ev := &expr.Evaluator{Accessor: m}

	mon = &Monitor{
		Machine:   m,
		Evaluator: ev,
		Watch:     watch.NewRegistry(ev),
		Output:    out,
	}

	return
}

// printf writes translated output.
func (mon *Monitor) printf(format string, args ...any) {
	fmt.Fprint(mon.Output, f(format, args...))
}

// Ended returns true once the machine has run past its program.
func (mon *Monitor) Ended() bool {
	return mon.ended
}

// Exec runs up to n instructions, or until the program ends if n is
// negative. Watchpoints are scanned after every instruction, and execution
// stops after the first one that changes any of them.
func (mon *Monitor) Exec(n int) (err error) {
	if mon.ended {
		err = ErrProgramEnded
		return
	}

	mon.Machine.Verbose = mon.Verbose
	mon.Evaluator.Verbose = mon.Verbose
	mon.Watch.Verbose = mon.Verbose

	for i := 0; n < 0 || i < n; i++ {
		eip := mon.Machine.Eip

		var done bool
		done, err = mon.Machine.Tick()
		if err != nil {
			return
		}

		if done {
			mon.ended = true
			mon.printf("nemu: program ended at 0x%08x after %v instructions\n", eip, strconv.Itoa(mon.Machine.Ticks))
			return
		}

		changes := mon.Watch.Scan()
		for _, change := range changes {
			mon.printf("Hit watchpoint %d at 0x%08x: %v\n", change.Id, eip, change.Expression)
			mon.printf("  old value = 0x%08x\n", change.Old)
			mon.printf("  new value = 0x%08x\n", change.New)
		}
		if len(changes) > 0 {
			return
		}
	}

	return
}

// Command runs one command line. quit is set by the quit command.
func (mon *Monitor) Command(line string) (quit bool, err error) {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	if len(name) == 0 {
		return
	}
	args = strings.TrimSpace(args)

	if mon.Verbose {
		log.Printf("monitor: %v %q", name, args)
	}

	cmd, ok := lookup(name)
	if !ok {
		err = &ErrCommandUnknown{Name: name, Suggestion: suggest(name)}
		return
	}

	return cmd.handler(mon, args)
}

// Run reads and executes commands until quit or end of input. Command
// failures are reported on Output and do not stop the loop.
func (mon *Monitor) Run(lines LineReader) (err error) {
	for {
		var line string
		line, err = lines.ReadLine()
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		quit, cmd_err := mon.Command(line)
		if cmd_err != nil {
			fmt.Fprintln(mon.Output, cmd_err)
		}
		if quit {
			return
		}
	}
}
