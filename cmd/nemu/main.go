// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/nemu/machine"
	"github.com/ezrec/nemu/monitor"
)

func main() {
	var script string
	var size int
	var image string
	var verbose bool
	var batch bool

	flag.StringVar(&script, "s", "", "Program script to debug")
	flag.IntVar(&size, "m", machine.MEMORY_SIZE, "Memory size, in bytes")
	flag.StringVar(&image, "l", "", "Memory image to load at the entry address")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&batch, "b", false, "Batch mode: run the program without a console")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	m := machine.NewMachine(size)
	m.Verbose = verbose

	if len(script) != 0 {
		inf, err := os.Open(script)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
		defer inf.Close()

		m.Program, err = machine.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
	}

	if len(image) != 0 {
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		defer inf.Close()

		_, err = m.Memory.Load(inf, machine.ENTRY_START)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	if batch {
		mon := monitor.NewMonitor(m, os.Stdout)
		mon.Verbose = verbose
		err := mon.Exec(-1)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		mon := monitor.NewMonitor(m, os.Stdout)
		mon.Verbose = verbose
		err := mon.Run(monitor.NewScannerReader(os.Stdin))
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	defer term.Restore(fd, oldState)

	terminal := term.NewTerminal(readWriter{in: os.Stdin, out: os.Stdout}, monitor.PROMPT)

	mon := monitor.NewMonitor(m, terminal)
	mon.Verbose = verbose
	err = mon.Run(terminal)
	if err != nil {
		fmt.Fprintln(terminal, err)
	}
}

// readWriter joins the console's input and output.
type readWriter struct {
	in  *os.File
	out *os.File
}

func (rw readWriter) Read(data []byte) (int, error) {
	return rw.in.Read(data)
}

func (rw readWriter) Write(data []byte) (int, error) {
	return rw.out.Write(data)
}
