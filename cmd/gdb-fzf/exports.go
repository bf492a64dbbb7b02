//go:build !windows

package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/shaobosong/gdb-fzf/internal/diag"
)

// gdbfzf_setup is the host's one-time entry point. The scripting shim
// passes a callback wrapping the debugger's execute-and-capture
// primitive. Returns 0 on success and -1 on failure; failure installs
// nothing.
//
//export gdbfzf_setup
func gdbfzf_setup(execCapture unsafe.Pointer) (rc C.int) {
	rc = -1
	defer recoverCallback("setup")
	if err := setup(execCapture); err != nil {
		diag.Warnf("%v", err)
		return -1
	}
	return 0
}

// gdbfzfHistorySearch is the readline command bound to the history-search
// key sequence.
//
//export gdbfzfHistorySearch
func gdbfzfHistorySearch(count, key C.int) C.int {
	defer recoverCallback("history search")
	if p := currentPlugin(); p != nil {
		p.searchHistory()
	}
	return 0
}

// gdbfzfCommandSearch is the readline command bound to the command-search
// key sequence.
//
//export gdbfzfCommandSearch
func gdbfzfCommandSearch(count, key C.int) C.int {
	defer recoverCallback("command search")
	if p := currentPlugin(); p != nil {
		p.searchCommands()
	}
	return 0
}

// gdbfzfAttemptedCompletion replaces rl_attempted_completion_function.
// Ownership of a non-nil return value passes to readline, which frees it
// after use; nil means "no matches" and leaves the buffer untouched.
//
//export gdbfzfAttemptedCompletion
func gdbfzfAttemptedCompletion(text *C.char, start, end C.int) (matches unsafe.Pointer) {
	defer recoverCallback("completion")
	p := currentPlugin()
	if p == nil {
		return nil
	}
	raw := p.interceptor.Complete([]byte(C.GoString(text)), int(start), int(end))
	return unsafe.Pointer(raw)
}

// recoverCallback confines panics to the callback boundary: a panic
// crossing into readline would abort the host debugger session.
func recoverCallback(op string) {
	if r := recover(); r != nil {
		diag.Warnf("%s failed: %v", op, r)
	}
}
