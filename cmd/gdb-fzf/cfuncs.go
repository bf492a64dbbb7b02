//go:build !windows

package main

/*
#include <stdlib.h>

// Prototypes for the cgo-exported callbacks; the definitions live in the
// generated export stubs.
extern int gdbfzfHistorySearch(int count, int key);
extern int gdbfzfCommandSearch(int count, int key);
extern void *gdbfzfAttemptedCompletion(char *text, int start, int end);

static void *gdbfzf_history_cb(void)    { return (void *)gdbfzfHistorySearch; }
static void *gdbfzf_command_cb(void)    { return (void *)gdbfzfCommandSearch; }
static void *gdbfzf_completion_cb(void) { return (void *)gdbfzfAttemptedCompletion; }

// The host shim's execute-and-capture callback. The returned buffer is
// malloc'd on the shim side and freed here after copying.
typedef char *(*gdbfzf_exec_capture_fn)(const char *command);

static char *gdbfzf_call_exec_capture(void *fn, const char *command) {
	return ((gdbfzf_exec_capture_fn)fn)(command);
}
*/
import "C"

import (
	"errors"
	"unsafe"
)

// describeCommand is what the host runs to enumerate every command name.
const describeCommand = "help all"

func historyCallbackPtr() unsafe.Pointer    { return C.gdbfzf_history_cb() }
func commandCallbackPtr() unsafe.Pointer    { return C.gdbfzf_command_cb() }
func completionCallbackPtr() unsafe.Pointer { return C.gdbfzf_completion_cb() }

// hostIntrospector satisfies candidates.Introspector over the shim's
// exec-capture callback.
type hostIntrospector struct {
	fn unsafe.Pointer
}

func (h *hostIntrospector) DescribeCommands() (string, error) {
	ccmd := C.CString(describeCommand)
	defer C.free(unsafe.Pointer(ccmd))

	out := C.gdbfzf_call_exec_capture(h.fn, ccmd)
	if out == nil {
		return "", errors.New("host introspection produced no output")
	}
	defer C.free(unsafe.Pointer(out))
	return C.GoString(out), nil
}
