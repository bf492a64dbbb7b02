//go:build !windows

package rlbind

/*
#include <stdlib.h>
#include <string.h>

// Plain malloc, not cgo's aborting wrapper: a failed allocation must come
// back as NULL so the completion request can degrade instead of killing
// the host.
static void *gdbfzf_malloc(size_t n) {
	return malloc(n);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrNativeAlloc marks a failed allocation from the native allocator.
var ErrNativeAlloc = errors.New("native allocation failed")

// MatchArray wraps readline's null-terminated char ** match list. The
// array and every entry are allocated with the process allocator, the one
// readline's own free() expects — anything else corrupts the heap when the
// native side releases the list.
//
// The raw array has exactly one owner at any time: the MatchArray holder,
// until either Free (this side releases it) or Release (ownership passes
// to the native caller).
type MatchArray struct {
	ptr unsafe.Pointer
}

// IsNil reports whether there is no underlying array.
func (m MatchArray) IsNil() bool { return m.ptr == nil }

// Len counts the entries before the null terminator.
func (m MatchArray) Len() int {
	if m.ptr == nil {
		return 0
	}
	n := 0
	for slot := m.ptr; *(**C.char)(slot) != nil; slot = unsafe.Add(slot, unsafe.Sizeof(uintptr(0))) {
		n++
	}
	return n
}

// Strings copies every entry out of the native array.
func (m MatchArray) Strings() [][]byte {
	if m.ptr == nil {
		return nil
	}
	var out [][]byte
	for slot := m.ptr; ; slot = unsafe.Add(slot, unsafe.Sizeof(uintptr(0))) {
		s := *(**C.char)(slot)
		if s == nil {
			break
		}
		out = append(out, []byte(C.GoString(s)))
	}
	return out
}

// Free releases the array and every entry with the native allocator. Only
// the owning side may call it, and never after Release.
func (m MatchArray) Free() {
	if m.ptr == nil {
		return
	}
	for slot := m.ptr; ; slot = unsafe.Add(slot, unsafe.Sizeof(uintptr(0))) {
		s := *(**C.char)(slot)
		if s == nil {
			break
		}
		C.free(unsafe.Pointer(s))
	}
	C.free(m.ptr)
}

// Release transfers ownership of the raw array to the native caller and
// returns the pointer to hand it. The native side frees it after use.
func (m MatchArray) Release() uintptr {
	return uintptr(m.ptr)
}

// NewSingleMatchArray builds a match list holding exactly word. On
// allocation failure any partial allocation is released before the error
// is returned.
func NewSingleMatchArray(word []byte) (MatchArray, error) {
	entryLen := C.size_t(len(word) + 1)
	entry := C.gdbfzf_malloc(entryLen)
	if entry == nil {
		return MatchArray{}, fmt.Errorf("%w: match entry (%d bytes)", ErrNativeAlloc, len(word)+1)
	}
	C.memset(entry, 0, entryLen)
	if len(word) > 0 {
		C.memcpy(entry, unsafe.Pointer(&word[0]), C.size_t(len(word)))
	}

	ptrSize := C.size_t(unsafe.Sizeof(uintptr(0)))
	arr := C.gdbfzf_malloc(2 * ptrSize)
	if arr == nil {
		C.free(entry)
		return MatchArray{}, fmt.Errorf("%w: match array", ErrNativeAlloc)
	}

	slots := (*[2]unsafe.Pointer)(arr)
	slots[0] = entry
	slots[1] = nil
	return MatchArray{ptr: arr}, nil
}
