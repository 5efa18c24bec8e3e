// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package monitor

import (
	"errors"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/ezrec/nemu/internal"
	"github.com/ezrec/nemu/watch"
)

// command is a monitor command table entry.
type command struct {
	name        string
	description string
	handler     func(mon *Monitor, args string) (quit bool, err error)
}

var commands []command

func init() {
	commands = []command{
		{"help", "Display informations about all supported commands", (*Monitor).cmdHelp},
		{"c", "Continue the execution of the program", (*Monitor).cmdContinue},
		{"q", "Exit NEMU", (*Monitor).cmdQuit},
		{"si", "Take N (default: 1) more steps of the execution of the program", (*Monitor).cmdStep},
		{"info", "Display registers (info r [NAME...]) or watchpoints (info w)", (*Monitor).cmdInfo},
		{"x", "Display N 4-byte words of memory starting at EXPR", (*Monitor).cmdExamine},
		{"p", "Display the value of an expression", (*Monitor).cmdPrint},
		{"w", "Set a watchpoint on an expression", (*Monitor).cmdWatch},
		{"d", "Delete watchpoint N", (*Monitor).cmdDelete},
	}
}

// lookup finds a command by exact name.
func lookup(name string) (cmd command, ok bool) {
	index := slices.IndexFunc(commands, func(cmd command) bool { return cmd.name == name })
	if index < 0 {
		return
	}

	return commands[index], true
}

// suggest returns the closest command name to name, or "".
func suggest(name string) string {
	names := make([]string, len(commands))
	for n, cmd := range commands {
		names[n] = cmd.name
	}

	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)

	return ranks[0].Target
}

// parseCount parses a positive decimal or 0x-prefixed count.
func parseCount(text string, usage string) (n int, err error) {
	value, err := strconv.ParseUint(text, 0, 32)
	if err != nil || value == 0 {
		err = ErrUsage(usage)
		return
	}

	n = int(value)
	return
}

func (mon *Monitor) cmdHelp(args string) (quit bool, err error) {
	if len(args) == 0 {
		for _, cmd := range commands {
			mon.printf("%v - %v\n", cmd.name, cmd.description)
		}
		return
	}

	cmd, ok := lookup(args)
	if !ok {
		err = &ErrCommandUnknown{Name: args, Suggestion: suggest(args)}
		return
	}

	mon.printf("%v - %v\n", cmd.name, cmd.description)
	return
}

func (mon *Monitor) cmdContinue(args string) (quit bool, err error) {
	err = mon.Exec(-1)
	return
}

func (mon *Monitor) cmdQuit(args string) (quit bool, err error) {
	quit = true
	return
}

func (mon *Monitor) cmdStep(args string) (quit bool, err error) {
	n := 1
	if len(args) != 0 {
		n, err = parseCount(args, "si [N]")
		if err != nil {
			return
		}
	}

	err = mon.Exec(n)
	return
}

func (mon *Monitor) cmdInfo(args string) (quit bool, err error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		err = ErrUsage("info r [NAME...] | info w")
		return
	}

	switch fields[0] {
	case "r":
		if len(fields) == 1 {
			mon.printf("%v", mon.Machine.String())
			return
		}
		names := fields[1:]
		seq := internal.IterSeq2Filter(mon.Machine.AllRegisters(), func(name string, _ uint32) bool {
			return slices.ContainsFunc(names, func(want string) bool {
				return strings.EqualFold(strings.TrimPrefix(want, "$"), name)
			})
		})
		for name, value := range seq {
			mon.printf("%v: 0x%x\n", name, value)
		}
	case "w":
		if mon.Watch.Len() == 0 {
			mon.printf("No watchpoints.\n")
			return
		}
		mon.printf("Num\tValue\t\tExpression\n")
		for wp := range mon.Watch.All() {
			mon.printf("%v\t0x%08x\t%v\n", wp.Id, wp.Value, wp.Expression)
		}
	default:
		err = ErrUsage("info r [NAME...] | info w")
	}

	return
}

func (mon *Monitor) cmdExamine(args string) (quit bool, err error) {
	count, text, _ := strings.Cut(args, " ")
	n, err := parseCount(count, "x N EXPR")
	if err != nil {
		return
	}

	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrNoExpression
		return
	}

	address, err := mon.Evaluator.Eval(text)
	if err != nil {
		return
	}

	for i := 0; i < n; i += 4 {
		line := f("0x%08x:", address+uint32(i*4))
		for j := i; j < n && j < i+4; j++ {
			var word uint32
			word, err = mon.Machine.ReadMemory(address+uint32(j*4), 4)
			if err != nil {
				mon.printf("%v\n", line)
				return
			}
			line += f("\t0x%08x", word)
		}
		mon.printf("%v\n", line)
	}

	return
}

func (mon *Monitor) cmdPrint(args string) (quit bool, err error) {
	if len(args) == 0 {
		err = ErrNoExpression
		return
	}

	value, err := mon.Evaluator.Eval(args)
	if err != nil {
		return
	}

	mon.printf("0x%x\n", value)
	return
}

func (mon *Monitor) cmdWatch(args string) (quit bool, err error) {
	if len(args) == 0 {
		err = ErrNoExpression
		return
	}

	wp, err := mon.Watch.Allocate(args)
	var seed *watch.ErrSeed
	if err == nil || errors.As(err, &seed) {
		mon.printf("Watchpoint %v: %v\n", wp.Id, wp.Expression)
	}

	return
}

func (mon *Monitor) cmdDelete(args string) (quit bool, err error) {
	id, err := strconv.Atoi(args)
	if err != nil {
		err = ErrUsage("d N")
		return
	}

	if !mon.Watch.Release(id) {
		err = watch.ErrWatchpointUnknown(id)
	}

	return
}
