// Package diag prints the plugin's user-facing diagnostics.
//
// Everything shares the debugger's terminal with readline, so output is
// limited to short single lines on stderr, prefixed so it is attributable
// amid GDB's own output.
package diag

import (
	"fmt"
	"os"
)

const prefix = "gdb-fzf: "

// Warnf prints a one-line diagnostic to stderr. The leading newline moves
// the message off whatever readline is currently drawing.
func Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\n"+prefix+format+"\n", args...)
}

// Debugf logs a message to stderr when GDB_FZF_DEBUG=1.
func Debugf(format string, args ...any) {
	if os.Getenv("GDB_FZF_DEBUG") == "1" {
		fmt.Fprintf(os.Stderr, prefix+"debug: "+format+"\n", args...)
	}
}
