// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package monitor

import (
	"bufio"
	"io"
)

// LineReader supplies command lines. *term.Terminal satisfies it.
type LineReader interface {
	ReadLine() (line string, err error)
}

// ScannerReader reads command lines from a non-interactive input.
type ScannerReader struct {
	scanner *bufio.Scanner
}

// NewScannerReader wraps input as a LineReader.
func NewScannerReader(input io.Reader) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(input)}
}

// ReadLine returns the next line, or io.EOF at end of input.
func (sr *ScannerReader) ReadLine() (line string, err error) {
	if !sr.scanner.Scan() {
		err = sr.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		return
	}

	line = sr.scanner.Text()
	return
}
