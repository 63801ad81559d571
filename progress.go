package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/df07/go-raytracer/pkg/core"
)

// terminalProgress rewrites a single "Scanlines remaining" line in place
type terminalProgress struct {
	w io.Writer
}

// Printf implements core.Logger
func (p *terminalProgress) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "\r"+format+" ", args...)
}

// Done ends the progress line
func (p *terminalProgress) Done() {
	fmt.Fprint(p.w, "\nDone.\n")
}

// newProgressLogger prints live progress when errOut is a terminal and
// sends it to glog at verbosity 1 otherwise
func newProgressLogger(errOut io.Writer) core.Logger {
	if f, ok := errOut.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &terminalProgress{w: errOut}
	}
	return core.GlogLogger{Verbosity: 1}
}
