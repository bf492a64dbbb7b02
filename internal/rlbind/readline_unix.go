//go:build !windows

package rlbind

/*
#include <stdlib.h>
#include <string.h>

// Entry record layout shared with readline's HIST_ENTRY: a fixed-order
// triple, reached through a null-terminated array of entry pointers.
typedef struct gdbfzf_hist_entry {
	char *line;
	char *timestamp;
	void *data;
} gdbfzf_hist_entry;

// One trampoline per bound signature. The target address comes out of
// dlsym as a void *, and these casts are the single place the readline
// ABI is spelled out.
typedef gdbfzf_hist_entry **(*gdbfzf_history_list_fn)(void);
typedef void (*gdbfzf_add_undo_fn)(int what, int start, int end, char *text);
typedef int (*gdbfzf_bind_keyseq_fn)(const char *seq, void *cb);
typedef int (*gdbfzf_delete_text_fn)(int start, int end);
typedef int (*gdbfzf_redisplay_fn)(void);
typedef int (*gdbfzf_insert_text_fn)(const char *text);
typedef char **(*gdbfzf_completion_fn)(const char *text, int start, int end);

static gdbfzf_hist_entry **gdbfzf_call_history_list(void *fn) {
	return ((gdbfzf_history_list_fn)fn)();
}
static void gdbfzf_call_add_undo(void *fn, int what, int start, int end, char *text) {
	((gdbfzf_add_undo_fn)fn)(what, start, end, text);
}
static int gdbfzf_call_bind_keyseq(void *fn, const char *seq, void *cb) {
	return ((gdbfzf_bind_keyseq_fn)fn)(seq, cb);
}
static int gdbfzf_call_delete_text(void *fn, int start, int end) {
	return ((gdbfzf_delete_text_fn)fn)(start, end);
}
static int gdbfzf_call_redisplay(void *fn) {
	return ((gdbfzf_redisplay_fn)fn)();
}
static int gdbfzf_call_insert_text(void *fn, const char *text) {
	return ((gdbfzf_insert_text_fn)fn)(text);
}
static char **gdbfzf_call_completion(void *fn, const char *text, int start, int end) {
	return ((gdbfzf_completion_fn)fn)(text, start, end);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Readline is the typed proxy over the resolved symbol table. One
// instance is constructed during setup and shared, read-only, for the
// rest of the process.
type Readline struct {
	historyList  uintptr
	addUndo      uintptr
	bindKeyseq   uintptr
	deleteText   uintptr
	forcedUpdate uintptr
	insertText   uintptr

	lineBuffer     uintptr // char **
	point          uintptr // int *
	end            uintptr // int *
	completionFunc uintptr // rl_completion_func_t **
}

// NewReadline builds the typed proxy from a resolved table. The table
// must cover Required(); anything less is a setup bug.
func NewReadline(t *Table) (*Readline, error) {
	for _, req := range Required() {
		if t.Addr(req.Name) == 0 {
			return nil, fmt.Errorf("symbol table is missing %q", req.Name)
		}
	}
	return &Readline{
		historyList:    t.Addr(SymHistoryList),
		addUndo:        t.Addr(SymAddUndo),
		bindKeyseq:     t.Addr(SymBindKeyseq),
		deleteText:     t.Addr(SymDeleteText),
		forcedUpdate:   t.Addr(SymForcedUpdateDisplay),
		insertText:     t.Addr(SymInsertText),
		lineBuffer:     t.Addr(SymLineBuffer),
		point:          t.Addr(SymPoint),
		end:            t.Addr(SymEnd),
		completionFunc: t.Addr(SymCompletionFunc),
	}, nil
}

// Buffer returns a copy of the live line buffer contents.
func (r *Readline) Buffer() []byte {
	p := *(**C.char)(unsafe.Pointer(r.lineBuffer))
	if p == nil {
		return nil
	}
	return []byte(C.GoString(p))
}

// Point returns the cursor offset.
func (r *Readline) Point() int {
	return int(*(*C.int)(unsafe.Pointer(r.point)))
}

// SetPoint moves the cursor offset.
func (r *Readline) SetPoint(n int) {
	*(*C.int)(unsafe.Pointer(r.point)) = C.int(n)
}

// End returns the buffer length.
func (r *Readline) End() int {
	return int(*(*C.int)(unsafe.Pointer(r.end)))
}

// AddUndo records an undo entry. text may be nil, as it is for the group
// begin/end markers.
func (r *Readline) AddUndo(code, start, end int, text []byte) {
	var ctext *C.char
	if text != nil {
		ctext = C.CString(string(text))
		defer C.free(unsafe.Pointer(ctext))
	}
	C.gdbfzf_call_add_undo(unsafe.Pointer(r.addUndo), C.int(code), C.int(start), C.int(end), ctext)
}

// DeleteText removes the byte range [start, end) from the buffer.
func (r *Readline) DeleteText(start, end int) int {
	return int(C.gdbfzf_call_delete_text(unsafe.Pointer(r.deleteText), C.int(start), C.int(end)))
}

// InsertText inserts text at the cursor.
func (r *Readline) InsertText(text []byte) int {
	ctext := C.CString(string(text))
	defer C.free(unsafe.Pointer(ctext))
	return int(C.gdbfzf_call_insert_text(unsafe.Pointer(r.insertText), ctext))
}

// ForceRedraw asks readline to repaint the line immediately.
func (r *Readline) ForceRedraw() {
	C.gdbfzf_call_redisplay(unsafe.Pointer(r.forcedUpdate))
}

// BindKeySeq binds a readline key sequence (readline escape syntax, e.g.
// `\C-r`) to a native command callback.
func (r *Readline) BindKeySeq(seq []byte, callback unsafe.Pointer) error {
	cseq := C.CString(string(seq))
	defer C.free(unsafe.Pointer(cseq))

	if rc := C.gdbfzf_call_bind_keyseq(unsafe.Pointer(r.bindKeyseq), cseq, callback); rc != 0 {
		return fmt.Errorf("rl_bind_keyseq(%q) returned %d", seq, int(rc))
	}
	return nil
}

// CompletionFunc reads the currently installed completion-dispatch
// function pointer.
func (r *Readline) CompletionFunc() unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(r.completionFunc))
}

// SetCompletionFunc installs fn as the completion-dispatch function.
func (r *Readline) SetCompletionFunc(fn unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Pointer(r.completionFunc)) = fn
}

// CallCompleter invokes a completion-dispatch function pointer with the
// readline calling convention and adopts the match array it returns.
func (r *Readline) CallCompleter(fn unsafe.Pointer, text []byte, start, end int) MatchArray {
	ctext := C.CString(string(text))
	defer C.free(unsafe.Pointer(ctext))

	raw := C.gdbfzf_call_completion(fn, ctext, C.int(start), C.int(end))
	return MatchArray{ptr: unsafe.Pointer(raw)}
}

// HistoryLines copies the native history list out, oldest entry first.
// Entries without a line are skipped.
func (r *Readline) HistoryLines() [][]byte {
	list := C.gdbfzf_call_history_list(unsafe.Pointer(r.historyList))
	if list == nil {
		return nil
	}

	var lines [][]byte
	slot := unsafe.Pointer(list)
	for {
		entry := *(**C.gdbfzf_hist_entry)(slot)
		if entry == nil {
			break
		}
		if entry.line != nil {
			lines = append(lines, []byte(C.GoString(entry.line)))
		}
		slot = unsafe.Add(slot, unsafe.Sizeof(uintptr(0)))
	}
	return lines
}
