// Package fzf drives the external fuzzy-selection subprocess.
//
// The invoker owns the wire protocol with fzf: candidates stream in
// NUL-terminated, output comes back NUL-delimited with the query printed
// before the selection. The subprocess's exit code is never consulted;
// the only distinguished failure is not being able to launch it at all.
package fzf

import (
	"bytes"
	"io"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sys/execabs"

	"github.com/shaobosong/gdb-fzf/internal/diag"
)

// Test seams over process creation and the interactive-terminal
// preconditions.
var (
	execCommand = execabs.Command
	checkTTYFn  = checkTTY
	checkTERMFn = checkTERM
)

const defaultHeight = "40%"

// Invoker runs the picker binary with a fixed baseline argument set.
type Invoker struct {
	// Path is the picker binary, defaulting to "fzf" on PATH.
	Path string
	// Height is the value for fzf's --height flag.
	Height string
	// ExtraArgs come from user configuration and follow the baseline set.
	ExtraArgs []string
	// Preview, when non-empty, is handed to fzf as --preview.
	Preview string
}

// baseArgs is the fixed framing contract with fzf: cyclic navigation,
// reverse layout, single selection, print-query, NUL-delimited input and
// output, ties broken by input order.
func (inv *Invoker) baseArgs() []string {
	height := inv.Height
	if height == "" {
		height = defaultHeight
	}
	args := []string{
		"--bind=tab:down,btab:up",
		"--cycle",
		"--height=" + height,
		"--layout=reverse",
		"--no-multi",
		"--print-query",
		"--print0",
		"--read0",
		"--tiebreak=index",
	}
	if inv.Preview != "" {
		args = append(args, "--preview="+inv.Preview)
	}
	return append(args, inv.ExtraArgs...)
}

// Invoke runs the picker over candidates with query pre-filled. One call
// is one picker session: the subprocess is spawned, fed, drained and
// reaped before Invoke returns. The result is the selected line, or query
// unchanged when the user declines or the picker cannot run.
func (inv *Invoker) Invoke(extra []string, candidates [][]byte, query []byte) []byte {
	session := uuid.NewString()

	// fzf needs a real terminal to draw on; degrade like a launch failure
	// when there is none.
	if err := checkTTYFn(); err != nil {
		diag.Warnf("cannot run picker: %v", err)
		return query
	}
	if err := checkTERMFn(); err != nil {
		diag.Warnf("cannot run picker: %v", err)
		return query
	}

	path := inv.Path
	if path == "" {
		path = "fzf"
	}

	args := append(inv.baseArgs(), extra...)
	args = append(args, "--query="+string(query))

	cmd := execCommand(path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		diag.Warnf("error running %s: %v", path, err)
		return query
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		diag.Warnf("error running %s: %v", path, err)
		return query
	}
	cmd.Stderr = os.Stderr // fzf renders its UI here

	if err := cmd.Start(); err != nil {
		stdin.Close()
		diag.Warnf("error running %s: %v (is fzf installed and on PATH?)", path, err)
		return query
	}
	diag.Debugf("session %s: started %s with %d candidates", session, path, len(candidates))

	nul := []byte{0}
	for _, c := range candidates {
		_, err := stdin.Write(c)
		if err == nil {
			_, err = stdin.Write(nul)
		}
		if err != nil {
			// The picker exited or closed its input; the user may have
			// already selected. Not an error.
			diag.Debugf("session %s: input closed early: %v", session, err)
			break
		}
	}
	stdin.Close()

	out, readErr := io.ReadAll(stdout)
	_ = cmd.Wait() // always reap; the exit code is not part of the contract
	if readErr != nil {
		diag.Warnf("error reading %s output: %v", path, readErr)
		return query
	}

	diag.Debugf("session %s: %d output bytes", session, len(out))
	return parseOutput(out, query)
}

// parseOutput splits fzf's --print0 output. With --print-query the typed
// query comes first and the selection, if any, last; trailing empty
// fields are stripped. No fields at all means the user made no selection,
// so the original query stands.
func parseOutput(out, query []byte) []byte {
	out = bytes.TrimRight(out, "\x00")
	if len(out) == 0 {
		return query
	}
	fields := bytes.Split(out, []byte{0})
	return fields[len(fields)-1]
}
